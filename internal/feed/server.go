package feed

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var statusPage = template.Must(template.New("status").Parse(`<!doctype html>
<title>{{.Title}}</title>
<h2>{{.Title}}</h2>
{{if .OK}}<table>
<tr><td>Rx</td><td>{{.State.RxFrequency}} Hz</td></tr>
<tr><td>Tx</td><td>{{.State.TxFrequency}} Hz</td></tr>
<tr><td>VFO</td><td>{{.State.VFO}} Hz</td></tr>
<tr><td>Band</td><td>{{.State.Band}}</td></tr>
<tr><td>Mode</td><td>{{.State.Mode}} {{.State.FilterBandwidth}} Hz</td></tr>
<tr><td>Sample rate</td><td>{{.State.SampleRate}}</td></tr>
<tr><td>PTT</td><td>{{if .State.PTT}}TX{{else}}RX{{end}}</td></tr>
<tr><td>Split</td><td>{{if .State.Split}}on{{else}}off{{end}}</td></tr>
</table>{{else}}<p>waiting for radio state</p>{{end}}
`))

// Handler routes /ws to the hub and /status to the status page.
func Handler(hub *Hub, pub *Publisher) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		s, ok := pub.State()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = statusPage.Execute(w, struct {
			Title string
			OK    bool
			State any
		}{pub.Title(), ok, s})
	})
	return mux
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()
	log.Infof("state feed on ws://%s/ws, status page http://%s/status", ln.Addr(), ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}
