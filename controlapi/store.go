package controlapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TaskStore defines persistence operations for scan tasks. Unlike the
// teacher's nmap-task store, a completed scan's findings are not folded
// into a single JSON blob on the task hash: SaveResults fans each
// discovered scanner.Device out into the shape the scan engine itself
// uses (an identity hash plus a set of open ports), so a caller could
// in principle inspect or update one device's ports without touching
// the rest of the task.
type TaskStore interface {
	CreateTask(task *ScanTask) error
	GetTask(id string) (*ScanTask, error)
	UpdateTask(task *ScanTask) error
	PushToQueue(taskID string) error
	PopFromQueue() (string, error)
	SaveResults(taskID string, results []DeviceResult) error
}

// ErrTaskNotFound indicates the requested task doesn't exist in the store.
var ErrTaskNotFound = errors.New("task not found")

// RedisStore implements TaskStore using Redis as backend, grounded in the
// teacher's api.RedisStore for task metadata (hash-per-task, list-queue),
// generalized for device results into one hash plus one set per device
// rather than a serialized results column.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed task store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) taskKey(id string) string {
	return fmt.Sprintf("scan:%s", id)
}

// deviceListKey holds the ordered IPs of every device a completed scan
// discovered, so results can be reconstructed in scan order.
func (s *RedisStore) deviceListKey(taskID string) string {
	return fmt.Sprintf("scan:%s:devices", taskID)
}

// deviceKey holds one device's identity/enrichment fields.
func (s *RedisStore) deviceKey(taskID, ip string) string {
	return fmt.Sprintf("scan:%s:device:%s", taskID, ip)
}

// devicePortsKey holds a device's open ports as a set of "<id>/<service>" members.
func (s *RedisStore) devicePortsKey(taskID, ip string) string {
	return fmt.Sprintf("scan:%s:device:%s:ports", taskID, ip)
}

// CreateTask persists a new scan task's metadata in Redis.
func (s *RedisStore) CreateTask(task *ScanTask) error {
	data, err := serializeTaskMeta(task)
	if err != nil {
		return err
	}
	return s.client.HSet(context.Background(), s.taskKey(task.ID), data).Err()
}

// GetTask retrieves a task's metadata by ID, filling in its device
// results from the per-device keys when the task has completed.
func (s *RedisStore) GetTask(id string) (*ScanTask, error) {
	ctx := context.Background()

	res, err := s.client.HGetAll(ctx, s.taskKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrTaskNotFound
	}
	task, err := deserializeTaskMeta(res)
	if err != nil {
		return nil, err
	}

	if task.Status == "completed" {
		results, err := s.loadResults(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("controlapi: loading device results for %s: %w", id, err)
		}
		task.Results = results
	}
	return task, nil
}

// UpdateTask updates an existing task's metadata in Redis. Device results
// are written separately via SaveResults, not through this call.
func (s *RedisStore) UpdateTask(task *ScanTask) error {
	data, err := serializeTaskMeta(task)
	if err != nil {
		return err
	}
	return s.client.HSet(context.Background(), s.taskKey(task.ID), data).Err()
}

// PushToQueue enqueues a task ID for workers to process.
func (s *RedisStore) PushToQueue(taskID string) error {
	return s.client.LPush(context.Background(), "scans:queue", taskID).Err()
}

// PopFromQueue blocks until a task ID is available.
func (s *RedisStore) PopFromQueue() (string, error) {
	res, err := s.client.BRPop(context.Background(), 0, "scans:queue").Result()
	if err != nil {
		return "", err
	}
	if len(res) != 2 {
		return "", errors.New("unexpected response size from BRPOP")
	}
	return res[1], nil
}

// SaveResults persists the devices a completed scan discovered, one hash
// (identity + enrichment) plus one port set per device, and an ordered
// list of device IPs so GetTask can reconstruct Results in scan order.
// Grounded in the scan engine's own Device/PortSet split
// (scanner/types.go) rather than the teacher's single "results" JSON
// column: a caller inspecting Redis directly sees the same device/port
// shape the engine reports on the notifier, not an opaque blob.
func (s *RedisStore) SaveResults(taskID string, results []DeviceResult) error {
	ctx := context.Background()
	listKey := s.deviceListKey(taskID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, listKey)
	for _, d := range results {
		pipe.RPush(ctx, listKey, d.IP)
		pipe.HSet(ctx, s.deviceKey(taskID, d.IP), deviceFields(d))

		portsKey := s.devicePortsKey(taskID, d.IP)
		pipe.Del(ctx, portsKey)
		for _, p := range d.OpenPorts {
			pipe.SAdd(ctx, portsKey, encodePortMember(p))
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) loadResults(ctx context.Context, taskID string) ([]DeviceResult, error) {
	ips, err := s.client.LRange(ctx, s.deviceListKey(taskID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]DeviceResult, 0, len(ips))
	for _, ip := range ips {
		fields, err := s.client.HGetAll(ctx, s.deviceKey(taskID, ip)).Result()
		if err != nil {
			return nil, err
		}
		portMembers, err := s.client.SMembers(ctx, s.devicePortsKey(taskID, ip)).Result()
		if err != nil {
			return nil, err
		}
		results = append(results, deviceResultFromFields(ip, fields, portMembers))
	}
	return results, nil
}

// deviceFields projects a DeviceResult's identity/enrichment fields onto
// the map HSET expects. OpenPorts is deliberately excluded: it lives in
// its own set key (devicePortsKey), not flattened into this hash.
func deviceFields(d DeviceResult) map[string]interface{} {
	return map[string]interface{}{
		"mac":             d.MAC,
		"hostname":        d.Hostname,
		"vendor":          d.Vendor,
		"is_current_host": strconv.FormatBool(d.IsCurrentHost),
	}
}

func deviceResultFromFields(ip string, fields map[string]string, portMembers []string) DeviceResult {
	ports := make([]PortResult, 0, len(portMembers))
	for _, m := range portMembers {
		if p, err := decodePortMember(m); err == nil {
			ports = append(ports, p)
		}
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].ID < ports[j].ID })

	return DeviceResult{
		IP:            ip,
		MAC:           fields["mac"],
		Hostname:      fields["hostname"],
		Vendor:        fields["vendor"],
		IsCurrentHost: fields["is_current_host"] == "true",
		OpenPorts:     ports,
	}
}

// encodePortMember/decodePortMember round-trip a PortResult through a
// single Redis set member ("<id>/<service>"), the same kind of compact
// wire-ish encoding the scan engine's RST builder uses for its own
// observed-sequence-number arithmetic: simple, allocation-light, and
// sufficient for data that is never queried by service name.
func encodePortMember(p PortResult) string {
	return fmt.Sprintf("%d/%s", p.ID, p.Service)
}

func decodePortMember(s string) (PortResult, error) {
	parts := strings.SplitN(s, "/", 2)
	id, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return PortResult{}, fmt.Errorf("controlapi: invalid port member %q: %w", s, err)
	}
	service := ""
	if len(parts) == 2 {
		service = parts[1]
	}
	return PortResult{ID: uint16(id), Service: service}, nil
}

// serializeTaskMeta/deserializeTaskMeta round-trip everything about a
// ScanTask except its device results, which SaveResults/loadResults
// manage through their own keys.
func serializeTaskMeta(task *ScanTask) (map[string]interface{}, error) {
	hosts, err := json.Marshal(task.Hosts)
	if err != nil {
		return nil, err
	}

	createdAt := task.CreatedAt.Format(time.RFC3339Nano)
	completedAt := ""
	if task.CompletedAt != nil {
		completedAt = task.CompletedAt.Format(time.RFC3339Nano)
	}

	return map[string]interface{}{
		"id":           task.ID,
		"status":       task.Status,
		"hosts":        string(hosts),
		"ports":        task.Ports,
		"mode":         task.Mode,
		"created_at":   createdAt,
		"completed_at": completedAt,
		"error":        task.Error,
	}, nil
}

func deserializeTaskMeta(data map[string]string) (*ScanTask, error) {
	var hosts []string
	if raw, ok := data["hosts"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &hosts); err != nil {
			return nil, err
		}
	}

	createdAt := time.Time{}
	if raw, ok := data["created_at"]; ok && raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		createdAt = t
	}

	var completedAt *time.Time
	if raw, ok := data["completed_at"]; ok && raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		completedAt = &t
	}

	return &ScanTask{
		ID:          data["id"],
		Status:      data["status"],
		Hosts:       hosts,
		Ports:       data["ports"],
		Mode:        data["mode"],
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
		Error:       data["error"],
	}, nil
}
