// Command lanscan is the one-shot CLI reporter front end for the scanning
// engine, grounded in the teacher's main.go: a flag-based interface
// choosing a scan mode, with JSON or plain-text output. The teacher's
// -sS/-sU/connect trio (TCP connect banner-grab, SYN, UDP) becomes
// ARP-only (--arp-only) or full ARP-then-SYN (the default) here, since
// banner-grabbing-by-connect and UDP scanning are out of scope.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"lanscan/network"
	"lanscan/scanner"
	"lanscan/services"
	"lanscan/targets"
	"lanscan/wire"
)

func main() {
	jsonOutput := flag.Bool("json", false, "output results in JSON format")
	arpOnly := flag.Bool("arp-only", false, "discover hosts only, skip port scanning")
	iface := flag.String("i", "", "network interface to use (default: auto-detect)")
	includeVendor := flag.Bool("vendor", true, "resolve MAC vendor for discovered hosts")
	includeHostnames := flag.Bool("hostnames", true, "resolve reverse DNS for discovered hosts")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || (!*arpOnly && len(args) < 2) {
		fmt.Println("Usage: lanscan [--json] [--arp-only] [-i iface] targets [portRange]")
		fmt.Println("Example: lanscan 192.168.1.0/24 1-1024")
		fmt.Println("Example: lanscan --arp-only 192.168.1.0/24")
		os.Exit(1)
	}

	hostTokens := strings.Split(args[0], ",")

	netIface, err := resolveInterface(*iface)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	w, err := wire.Open(netIface)
	if err != nil {
		fmt.Printf("Error opening interface %s: %v\n", netIface.Name, err)
		fmt.Println("Raw packet scanning requires elevated privileges. Try: sudo lanscan ...")
		os.Exit(1)
	}
	defer w.Close()

	sourcePort, err := network.FindOpenPort()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ipTargets, err := targets.NewIPTargets(hostTokens)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	notifier := make(chan scanner.ScanMessage, 256)

	var handle *scanner.Handle
	if *arpOnly {
		handle = scanner.NewARPScanner(scanner.ARPScannerArgs{
			Interface:        netIface,
			Reader:           w.Reader(),
			Sender:           w.Sender(),
			Targets:          ipTargets,
			SourcePort:       sourcePort,
			IncludeVendor:    *includeVendor,
			IncludeHostnames: *includeHostnames,
			Notifier:         notifier,
		}).Scan()
	} else {
		portTargets, err := targets.NewPortTargets([]string{args[1]})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		handle = scanner.NewFullScanner(scanner.FullScannerArgs{
			Interface:        netIface,
			Reader:           w.Reader(),
			Sender:           w.Sender(),
			IPTargets:        ipTargets,
			Ports:            portTargets,
			SourcePort:       sourcePort,
			IncludeVendor:    *includeVendor,
			IncludeHostnames: *includeHostnames,
			Notifier:         notifier,
		}).Scan()
	}

	serviceMap := services.Common()
	devices := collect(notifier, serviceMap)

	if err := handle.Wait(); err != nil {
		fmt.Printf("Error: %v\n", err)
	}

	scanner.SortDevices(devices)

	if *jsonOutput {
		outputJSON(devices)
	} else {
		outputPlainText(devices)
	}
}

func resolveInterface(name string) (*network.Interface, error) {
	if name != "" {
		return network.FromName(name)
	}
	return network.DefaultInterface()
}

func collect(notifier chan scanner.ScanMessage, svc *services.Map) []scanner.Device {
	var devices []scanner.Device
	for msg := range notifier {
		switch msg.Kind {
		case scanner.ARPScanDevice:
			devices = upsert(devices, msg.Device)
		case scanner.SYNScanDevice:
			port := msg.OpenPort
			port.Service = svc.Lookup(port.ID)
			devices = upsertWithPort(devices, msg.Device, port)
		case scanner.Done:
			return devices
		}
	}
	return devices
}

func upsert(devices []scanner.Device, d scanner.Device) []scanner.Device {
	for i := range devices {
		if devices[i].Key() == d.Key() {
			return devices
		}
	}
	return append(devices, d)
}

func upsertWithPort(devices []scanner.Device, d scanner.Device, port scanner.Port) []scanner.Device {
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

type jsonPort struct {
	ID      uint16 `json:"id"`
	Service string `json:"service,omitempty"`
}

type jsonDevice struct {
	IP       string     `json:"ip"`
	MAC      string     `json:"mac"`
	Hostname string     `json:"hostname,omitempty"`
	Vendor   string     `json:"vendor,omitempty"`
	Ports    []jsonPort `json:"open_ports,omitempty"`
}

func outputJSON(devices []scanner.Device) {
	out := make([]jsonDevice, 0, len(devices))
	for _, d := range devices {
		jd := jsonDevice{IP: d.IP.String(), MAC: d.MAC.String(), Hostname: d.Hostname, Vendor: d.Vendor}
		if d.OpenPorts != nil {
			for _, p := range d.OpenPorts.Sorted() {
				jd.Ports = append(jd.Ports, jsonPort{ID: p.ID, Service: p.Service})
			}
		}
		out = append(out, jd)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding to JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func outputPlainText(devices []scanner.Device) {
	for _, d := range devices {
		label := d.IP.String()
		if d.Hostname != "" {
			label = fmt.Sprintf("%s (%s)", d.IP, d.Hostname)
		}
		vendor := d.Vendor
		if vendor == "" {
			vendor = "unknown vendor"
		}
		fmt.Printf("%s - %s - %s\n", label, d.MAC, vendor)

		if d.OpenPorts == nil {
			continue
		}
		for _, p := range d.OpenPorts.Sorted() {
			service := p.Service
			if service == "" {
				service = "unknown"
			}
			fmt.Printf("  %d/tcp open %s\n", p.ID, service)
		}
	}
}
