package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stapelberg/switchergo/discovery"
)

var statusTmplContents = `
<!DOCTYPE html>
<title>switcherctl</title>
<body>
<h1>Devices seen since startup</h1>
<table width="100%" border="1" cellpadding="4">
<tr><th>id</th><th>type</th><th>ip</th><th>name</th><th>detail</th><th>last seen</th></tr>
{{ range $id, $row := .Devices }}
<tr>
<td>{{ $id }}</td>
<td>{{ $row.Device.DeviceType.Category }}</td>
<td>{{ $row.Device.IP }}</td>
<td>{{ $row.Device.Name }}</td>
<td>{{ $row.Device }}</td>
<td>{{ $row.LastSeen.Format "15:04:05" }}</td>
</tr>
{{ end }}
</table>
`

var statusTmpl = template.Must(template.New("status").Parse(statusTmplContents))

type seenDevice struct {
	Device   discovery.Device
	LastSeen time.Time
}

type registry struct {
	mu   sync.Mutex
	byID map[string]seenDevice
}

func newRegistry() *registry {
	return &registry{byID: make(map[string]seenDevice)}
}

func (r *registry) record(d discovery.Device) {
	r.mu.Lock()
	r.byID[d.DeviceID()] = seenDevice{Device: d, LastSeen: time.Now()}
	r.mu.Unlock()
}

func (r *registry) snapshot() map[string]seenDevice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]seenDevice, len(r.byID))
	for k, v := range r.byID {
		out[k] = v
	}
	return out
}

func handleStatus(reg *registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := statusTmpl.Execute(&buf, struct {
			Devices map[string]seenDevice
		}{
			Devices: reg.snapshot(),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		io.Copy(w, &buf)
	}
}

func runDiscover(ctx context.Context, args []string) error {
	fs := newFlagSet("discover")
	listen := fs.String("listen", ":8013", "host:port to serve /status and /metrics on")
	quiet := fs.Bool("quiet", false, "do not print devices to stdout as they arrive")
	fs.Parse(args)

	reg := newRegistry()

	bridge := discovery.NewBridge(func(d discovery.Device) {
		reg.record(d)
		if !*quiet {
			printDevice(d)
		}
	})

	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("starting discovery bridge: %w", err)
	}
	defer bridge.Stop()

	router := chi.NewRouter()
	router.Get("/status", handleStatus(reg))
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: *listen, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("switcherctl: status server: %v", err)
		}
	}()

	color.Cyan("listening for broadcasts on udp %v, status on http://%s/status", discovery.DefaultPorts, *listen)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	return nil
}

func printDevice(d discovery.Device) {
	switch dev := d.(type) {
	case discovery.WaterHeater:
		color.Green("water_heater %s %q %s", dev.DeviceID(), dev.Name(), dev.State)
	case discovery.PowerPlug:
		color.Yellow("power_plug   %s %q %s", dev.DeviceID(), dev.Name(), dev.State)
	case discovery.Shutter:
		color.Blue("shutter      %s %q position=%d %s", dev.DeviceID(), dev.Name(), dev.Position, dev.Direction)
	case discovery.Thermostat:
		color.Magenta("thermostat   %s %q %s mode=%s", dev.DeviceID(), dev.Name(), dev.State, dev.Mode)
	default:
		fmt.Println(d)
	}
}
