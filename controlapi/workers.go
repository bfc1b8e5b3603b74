package controlapi

import (
	"fmt"
	"log/slog"
	"time"

	"lanscan/internal/logging"
	"lanscan/network"
	"lanscan/scanner"
	"lanscan/targets"
	"lanscan/wire"
)

// StartWorkers launches background goroutines that pop queued tasks and
// drive the scanning engine against them, grounded in the teacher's
// api.StartWorkers/workerLoop.
func StartWorkers(store TaskStore, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go workerLoop(store)
	}
}

func workerLoop(store TaskStore) {
	log := logging.Logger()

	for {
		taskID, err := store.PopFromQueue()
		if err != nil {
			log.Error("worker: failed to pop task", "error", err)
			time.Sleep(time.Second)
			continue
		}

		task, err := store.GetTask(taskID)
		if err != nil {
			if err == ErrTaskNotFound {
				log.Warn("worker: task disappeared", "task_id", taskID)
				continue
			}
			log.Error("worker: failed to load task", "task_id", taskID, "error", err)
			continue
		}

		task.Status = "running"
		task.Error = ""
		task.Results = nil
		task.CompletedAt = nil
		if err := store.UpdateTask(task); err != nil {
			log.Error("worker: failed to set task running", "task_id", taskID, "error", err)
			continue
		}

		devices, err := runTask(task, log)
		if err != nil {
			failTask(task, store, err, log)
			continue
		}

		results := toDeviceResults(task.Mode, devices)
		if err := store.SaveResults(task.ID, results); err != nil {
			log.Error("worker: failed to save device results", "task_id", task.ID, "error", err)
			failTask(task, store, fmt.Errorf("saving results: %w", err), log)
			continue
		}

		task.Status = "completed"
		now := time.Now().UTC()
		task.CompletedAt = &now

		if err := store.UpdateTask(task); err != nil {
			log.Error("worker: failed to update task", "task_id", task.ID, "error", err)
		}
	}
}

// runTask opens a fresh wire on the default interface and drives one scan
// (arp, syn, or full) to completion, collecting every Device message
// emitted before Done.
func runTask(task *ScanTask, log *slog.Logger) ([]scanner.Device, error) {
	iface, err := network.DefaultInterface()
	if err != nil {
		return nil, err
	}

	w, err := wire.Open(iface)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	sourcePort, err := network.FindOpenPort()
	if err != nil {
		return nil, err
	}

	ipTargets, err := targets.NewIPTargets(task.Hosts)
	if err != nil {
		return nil, err
	}

	notifier := make(chan scanner.ScanMessage, 256)

	var handle *scanner.Handle

	switch task.Mode {
	case "arp":
		arp := scanner.NewARPScanner(scanner.ARPScannerArgs{
			Interface:        iface,
			Reader:           w.Reader(),
			Sender:           w.Sender(),
			Targets:          ipTargets,
			SourcePort:       sourcePort,
			IncludeVendor:    true,
			IncludeHostnames: true,
			Notifier:         notifier,
		})
		handle = arp.Scan()

	case "syn", "full":
		portTargets, err := targets.NewPortTargets([]string{task.Ports})
		if err != nil {
			return nil, err
		}
		full := scanner.NewFullScanner(scanner.FullScannerArgs{
			Interface:        iface,
			Reader:           w.Reader(),
			Sender:           w.Sender(),
			IPTargets:        ipTargets,
			Ports:            portTargets,
			SourcePort:       sourcePort,
			IncludeVendor:    true,
			IncludeHostnames: true,
			Notifier:         notifier,
		})
		handle = full.Scan()

	default:
		return nil, fmt.Errorf("controlapi: unsupported scan mode: %s", task.Mode)
	}

	var devices []scanner.Device
readLoop:
	for msg := range notifier {
		switch msg.Kind {
		case scanner.ARPScanDevice:
			devices = appendOrMergeDevice(devices, msg.Device)
		case scanner.SYNScanDevice:
			devices = mergeOpenPort(devices, msg.Device, msg.OpenPort)
		case scanner.Done:
			break readLoop
		}
	}

	if err := handle.Wait(); err != nil {
		log.Warn("worker: scan finished with error", "task_id", task.ID, "error", err)
		return devices, err
	}
	return devices, nil
}

func appendOrMergeDevice(devices []scanner.Device, d scanner.Device) []scanner.Device {
	for i := range devices {
		if devices[i].Key() == d.Key() {
			return devices
		}
	}
	return append(devices, d)
}

func mergeOpenPort(devices []scanner.Device, d scanner.Device, port scanner.Port) []scanner.Device {
	for i := range devices {
		if devices[i].Key() == d.Key() {
			if devices[i].OpenPorts == nil {
				devices[i].OpenPorts = scanner.NewPortSet()
			}
			devices[i].OpenPorts.Add(port)
			return devices
		}
	}
	d.OpenPorts = scanner.NewPortSet()
	d.OpenPorts.Add(port)
	return append(devices, d)
}

func toDeviceResults(mode string, devices []scanner.Device) []DeviceResult {
	results := make([]DeviceResult, 0, len(devices))
	for _, d := range devices {
		if mode == "syn" && (d.OpenPorts == nil || len(d.OpenPorts.Sorted()) == 0) {
			continue
		}
		results = append(results, newDeviceResult(d))
	}
	return results
}

func failTask(task *ScanTask, store TaskStore, err error, log *slog.Logger) {
	log.Error("worker: task failed", "task_id", task.ID, "error", err)
	task.Status = "failed"
	task.Error = err.Error()
	task.Results = nil
	now := time.Now().UTC()
	task.CompletedAt = &now
	if updateErr := store.UpdateTask(task); updateErr != nil {
		log.Error("worker: failed to persist failed task", "task_id", task.ID, "error", updateErr)
	}
}
