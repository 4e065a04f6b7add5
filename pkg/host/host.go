// Package host serves widgets as popup pages over HTTP. Each page is the
// rendered markup of one widget; forms post actions back and redirect.
package host

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Badger exposes badge text per widget, typically the background agent.
type Badger interface {
	Badges() map[string]string
}

// Host routes HTTP requests to widget controllers.
type Host struct {
	widgets *catalog.Set
	badges  Badger
	metrics *Metrics
	logger  *log.Logger
	engine  *gin.Engine
}

// Option configures a Host.
type Option func(*Host)

// WithBadges shows badge text on the index page.
func WithBadges(b Badger) Option {
	return func(h *Host) { h.badges = b }
}

// WithLogger sets the request error logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithMetrics shares a metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// New builds the router.
func New(widgets *catalog.Set, opts ...Option) *Host {
	h := &Host{widgets: widgets}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = log.New(os.Stderr, "host: ", log.LstdFlags)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), h.metrics.Middleware())

	r.GET("/", h.index)
	r.GET("/metrics", h.metrics.Handler())

	page := r.Group("/w/:name")
	{
		page.GET("", h.page)
		page.POST("/actions", h.postForm)
	}
	api := r.Group("/api/w/:name")
	{
		api.GET("", h.getView)
		api.POST("/actions", h.postJSON)
	}
	h.engine = r
	return h
}

// Handler returns the http.Handler for tests and custom servers.
func (h *Host) Handler() http.Handler { return h.engine }

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (h *Host) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.engine, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.logger.Printf("listening on http://%s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<nav class="widgets">
<ul>
{{- range .}}
<li><a href="/w/{{.Name}}">{{.Name}}</a>{{with .Badge}} <span class="badge">{{.}}</span>{{end}}</li>
{{- end}}
</ul>
</nav>
`))

func (h *Host) index(c *gin.Context) {
	type entry struct{ Name, Badge string }
	var badges map[string]string
	if h.badges != nil {
		badges = h.badges.Badges()
	}
	entries := make([]entry, 0)
	for _, n := range catalog.Names() {
		entries = append(entries, entry{Name: n, Badge: badges[n]})
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(c.Writer, entries); err != nil {
		h.logger.Printf("index: %v", err)
	}
}

// lookup resolves :name and writes the error response when it fails.
func (h *Host) lookup(c *gin.Context) (widget.Widget, bool) {
	name := c.Param("name")
	w, err := h.widgets.Get(c.Request.Context(), name)
	switch {
	case errors.Is(err, catalog.ErrUnknown):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		h.logger.Printf("load %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		return nil, false
	}
	return w, true
}

// savePending is reported when a change applied in memory could not be saved.
const savePending = "saving failed; the change is kept until the next successful save"

func (h *Host) page(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	ui := w.UI()
	ui.Query = c.Query("q")
	w.SetUI(ui)
	h.writePage(c, w, http.StatusOK, "")
}

// writePage renders w with an optional error notice above the markup.
func (h *Host) writePage(c *gin.Context, w widget.Widget, status int, notice string) {
	timer := h.metrics.TrackRender(w.Name())
	markup, err := render.HTML(w.View(), "/w/"+w.Name()+"/actions")
	timer.ObserveDuration()
	if err != nil {
		h.logger.Printf("render %s: %v", w.Name(), err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if notice != "" {
		markup = `<p class="error" role="alert">` + template.HTMLEscapeString(notice) + "</p>\n" + markup
	}
	c.Data(status, "text/html; charset=utf-8", []byte(markup))
}

func (h *Host) dispatch(c *gin.Context, w widget.Widget, a widget.Action) (widget.Result, error) {
	res, err := w.Dispatch(c.Request.Context(), a)
	h.metrics.TrackAction(w.Name(), a, res, err)
	if err != nil && !errors.Is(err, widget.ErrUnknownAction) {
		h.logger.Printf("%s %s: %v", w.Name(), a, err)
	}
	return res, err
}

func (h *Host) postForm(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	var a widget.Action
	if err := c.ShouldBind(&a); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := h.dispatch(c, w, a)
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		// the in-memory change stands, so the page shows it with the failure.
		h.writePage(c, w, http.StatusInternalServerError, savePending)
		return
	}
	target := "/w/" + w.Name()
	if q := w.UI().Query; q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Host) getView(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.View())
}

type actionResponse struct {
	Result widget.Result `json:"result"`
	View   widget.View   `json:"view"`
	Error  string        `json:"error,omitempty"`
}

func (h *Host) postJSON(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	var a widget.Action
	if err := c.ShouldBindJSON(&a); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.dispatch(c, w, a)
	resp := actionResponse{Result: res, View: w.View()}
	status := http.StatusOK
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		status = http.StatusBadRequest
		resp.Error = err.Error()
	case err != nil:
		status = http.StatusInternalServerError
		resp.Error = savePending
	case res.Rejected:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}
