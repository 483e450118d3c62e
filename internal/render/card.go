package render

import (
	"bytes"
	"html/template"
	"time"
)

// CardData is the view of one saved summary on the listing page.
type CardData struct {
	ID        string
	Timestamp int64
	URL       string
	Summary   string
}

var cardTemplate = template.Must(template.New("card").Parse(`<article class="summary-card" data-id="{{.ID}}">
  <header>
    <time datetime="{{.ISO}}">{{.Display}}</time>
    {{if .URL}}<a class="source" href="{{.URL}}" target="_blank" rel="noopener">{{.URL}}</a>{{end}}
    <button class="delete-btn" data-id="{{.ID}}">Delete</button>
  </header>
  <div class="summary-body">{{.Body}}</div>
</article>`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Saved Summaries</title>
</head>
<body>
<h1>Saved Summaries</h1>
{{if .Cards}}<div id="summaries">{{range .Cards}}{{.}}
{{end}}</div>{{else}}<p class="empty">No summaries saved yet.</p>{{end}}
</body>
</html>
`))

type cardView struct {
	ID      string
	ISO     string
	Display string
	URL     string
	Body    template.HTML
}

// Card renders one saved summary as an HTML fragment. Times use loc, or UTC
// when loc is nil.
func (r *Renderer) Card(data CardData, loc *time.Location) (template.HTML, error) {
	if loc == nil {
		loc = time.UTC
	}
	ts := time.UnixMilli(data.Timestamp).In(loc)
	view := cardView{
		ID:      data.ID,
		ISO:     ts.Format(time.RFC3339),
		Display: ts.Format("Jan 2, 2006 3:04 PM"),
		URL:     data.URL,
		Body:    template.HTML(r.HTML(data.Summary).Markup),
	}
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Page renders the full saved-summaries listing.
func (r *Renderer) Page(cards []CardData, loc *time.Location) ([]byte, error) {
	rendered := make([]template.HTML, 0, len(cards))
	for _, card := range cards {
		html, err := r.Card(card, loc)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, html)
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, struct{ Cards []template.HTML }{rendered}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
