// Package render projects a widget View into popup markup.
package render

import (
	"bytes"
	"html/template"

	"tableflip.dev/widgets/pkg/widget"
)

const popupTemplate = `<section class="widget" data-widget="{{.View.Widget}}">
<h1>{{.View.Title}}</h1>
{{- with .View.Feedback}}
<p class="feedback" role="alert">{{.}}</p>
{{- end}}
{{- range .View.Forms}}
<form method="post" action="{{$.ActionURL}}" class="form-{{.Action}}">
<input type="hidden" name="type" value="{{.Action}}">
<input type="text" name="{{.Field}}" placeholder="{{.Placeholder}}" aria-label="{{.Label}}">
<button type="submit">{{.Label}}</button>
</form>
{{- end}}
{{- if .View.Buttons}}
<div class="buttons">
{{- range .View.Buttons}}
<form method="post" action="{{$.ActionURL}}" class="button"><input type="hidden" name="type" value="{{.Action}}"><button type="submit">{{.Label}}</button></form>
{{- end}}
</div>
{{- end}}
{{- range .View.Stats}}
<div class="stat"><span class="label">{{.Label}}</span> <strong>{{.Value}}</strong>{{if ge .Bar 0}} <progress max="100" value="{{.Bar}}"></progress>{{end}}</div>
{{- end}}
{{- if .View.Grid}}
<pre class="grid">{{range .View.Grid}}{{.}}
{{end}}</pre>
{{- end}}
{{- if .View.Rows}}
<ul class="items">
{{- range .View.Rows}}
<li data-id="{{.ID}}" class="{{rowClass .}}">{{with .Icon}}<span class="icon">{{.}}</span> {{end}}<span class="label">{{highlight .Label $.View.Query}}</span>{{with .Detail}} <small>{{highlight . $.View.Query}}</small>{{end}}
{{- $row := .}}
{{- range $.View.RowActions}}
<form method="post" action="{{$.ActionURL}}" class="row-action"><input type="hidden" name="type" value="{{.Action}}"><input type="hidden" name="id" value="{{$row.ID}}"><button type="submit">{{.Label}}</button></form>
{{- end}}
</li>
{{- end}}
</ul>
{{- else if .View.Empty}}
<p class="empty">{{.View.Empty}}</p>
{{- end}}
</section>
`

var popup = template.Must(template.New("popup").Funcs(template.FuncMap{
	"highlight": Highlight,
	"rowClass":  rowClass,
}).Parse(popupTemplate))

// HTML renders v as popup markup. Forms post to actionURL. The same view
// always yields the same markup, and every user-supplied string is escaped.
func HTML(v widget.View, actionURL string) (string, error) {
	if actionURL == "" {
		actionURL = "actions"
	}
	var buf bytes.Buffer
	err := popup.Execute(&buf, struct {
		View      widget.View
		ActionURL string
	}{View: v, ActionURL: actionURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rowClass(r widget.Row) string {
	switch {
	case r.Done && r.Pinned:
		return "item done pinned"
	case r.Done:
		return "item done"
	case r.Pinned:
		return "item pinned"
	default:
		return "item"
	}
}
