package report

import (
	"bytes"
	"html/template"
	"os"

	"github.com/rotisserie/eris"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// viewerTemplate renders a self-contained HTML page: summary cards on
// top, then tabbed tables for matched and unmatched videos. No external
// assets, so the file can be opened directly or published as-is.
const viewerTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Committee Hearing Matches</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background-color: #f5f5f5; }
  .container { max-width: 1600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
  h1 { color: #2c3e50; font-size: 24px; margin-bottom: 10px; }
  .stats { display: flex; gap: 20px; margin: 20px 0; flex-wrap: wrap; }
  .stat { background: #ecf0f1; padding: 12px 20px; border-radius: 8px; }
  .stat .value { font-size: 22px; font-weight: bold; color: #2c3e50; }
  .stat .label { font-size: 12px; color: #7f8c8d; text-transform: uppercase; }
  .tabs { margin-bottom: 20px; border-bottom: 2px solid #ecf0f1; }
  .tab-button { background: none; border: none; padding: 12px 24px; font-size: 16px; cursor: pointer; color: #7f8c8d; }
  .tab-button.active { color: #3498db; border-bottom: 3px solid #3498db; }
  .tab-content { display: none; }
  .tab-content.active { display: block; }
  table { width: 100%; border-collapse: collapse; margin-top: 20px; font-size: 14px; }
  th { background: #34495e; color: white; padding: 10px; text-align: left; position: sticky; top: 0; }
  td { padding: 8px 10px; border-bottom: 1px solid #ecf0f1; vertical-align: top; }
  tr:hover { background: #f8f9fa; }
  .score { font-weight: bold; }
  .method-llm { color: #8e44ad; }
  .method-algo { color: #27ae60; }
  a { color: #3498db; text-decoration: none; }
  a:hover { text-decoration: underline; }
</style>
</head>
<body>
<div class="container">
  <h1>Committee Hearing Matches</h1>
  <p>Generated {{.Metadata.GeneratedAt.Format "2006-01-02 15:04"}}</p>

  <div class="stats">
    <div class="stat"><div class="value">{{.Metadata.TotalVideos}}</div><div class="label">Videos</div></div>
    <div class="stat"><div class="value">{{.Metadata.TotalEvents}}</div><div class="label">Congress Events</div></div>
    <div class="stat"><div class="value">{{.Metadata.Matched}}</div><div class="label">Matched</div></div>
    <div class="stat"><div class="value">{{.Metadata.Unmatched}}</div><div class="label">Unmatched</div></div>
    <div class="stat"><div class="value">{{.Metadata.MatchRate}}</div><div class="label">Match Rate</div></div>
    <div class="stat"><div class="value">{{.Metadata.AdjudicatedMatches}}</div><div class="label">LLM Adjudicated</div></div>
  </div>

  <div class="tabs">
    <button class="tab-button active" onclick="showTab(event, 'matched')">Matched ({{.Metadata.Matched}})</button>
    <button class="tab-button" onclick="showTab(event, 'unmatched')">Unmatched ({{.Metadata.Unmatched}})</button>
  </div>

  <div id="matched" class="tab-content active">
    <table>
      <tr><th>YouTube</th><th>Date</th><th>Committee</th><th>Congress Event</th><th>Event Date</th><th>Score</th><th>Method</th><th>Reasons</th></tr>
      {{range .Matches}}
      <tr>
        <td><a href="{{.Video.URL}}" target="_blank">{{.Video.Title}}</a></td>
        <td>{{.Video.DateString}}</td>
        <td>{{.Video.Committee}}</td>
        <td>{{if .Event.CongressURL}}<a href="{{.Event.CongressURL}}" target="_blank">{{.Event.Title}}</a>{{else}}{{.Event.Title}}{{end}}</td>
        <td>{{.Event.DateString}}</td>
        <td class="score">{{printf "%.2f" .Score}}</td>
        <td class="{{if eq .Method "llm_adjudicated"}}method-llm{{else}}method-algo{{end}}">{{.Method}}</td>
        <td>{{range $i, $r := .Reasons}}{{if $i}}; {{end}}{{$r}}{{end}}{{with .Adjudication}}<br><em>LLM ({{.Confidence}}): {{.Reasoning}}</em>{{end}}</td>
      </tr>
      {{end}}
    </table>
  </div>

  <div id="unmatched" class="tab-content">
    <table>
      <tr><th>YouTube</th><th>Date</th><th>Committee</th><th>Best Score</th><th>Best Candidate</th></tr>
      {{range .Unmatched}}
      <tr>
        <td><a href="{{.Video.URL}}" target="_blank">{{.Video.Title}}</a></td>
        <td>{{.Video.DateString}}</td>
        <td>{{.Video.Committee}}</td>
        <td class="score">{{printf "%.2f" .BestScore}}</td>
        <td>{{.BestMatchTitle}}</td>
      </tr>
      {{end}}
    </table>
  </div>
</div>

<script>
function showTab(evt, id) {
  document.querySelectorAll('.tab-content').forEach(function (el) { el.classList.remove('active'); });
  document.querySelectorAll('.tab-button').forEach(function (el) { el.classList.remove('active'); });
  document.getElementById(id).classList.add('active');
  evt.currentTarget.classList.add('active');
}
</script>
</body>
</html>
`

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerTemplate))

// ExportHTML writes the report as a standalone HTML viewer page.
func ExportHTML(r *model.MatchReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create html file")
	}
	defer f.Close()

	if err := viewerTmpl.Execute(f, r); err != nil {
		return eris.Wrap(err, "report: render html")
	}
	return nil
}

// RenderHTML renders the viewer page to a byte slice, for serving over
// HTTP without touching disk.
func RenderHTML(r *model.MatchReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := viewerTmpl.Execute(&buf, r); err != nil {
		return nil, eris.Wrap(err, "report: render html")
	}
	return buf.Bytes(), nil
}
