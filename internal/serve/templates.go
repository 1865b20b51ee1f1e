package serve

import "html/template"

type pageData struct {
	MaxUploadMB int64
	Error       string
	Result      *resultView
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Magazine PDF Feedback</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
.error { background: #fde8e8; border-left: 4px solid #c81e1e; padding: .75rem 1rem; }
.note { background: #fdf6e3; border-left: 4px solid #b58900; padding: .5rem 1rem; }
.stats td { padding: .15rem 1rem .15rem 0; }
.feedback { border-top: 1px solid #ddd; margin-top: 1.5rem; }
blockquote { color: #444; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Magazine PDF Feedback Generator</h1>

<form id="upload" method="post" action="/analyze" enctype="multipart/form-data">
  <p><label>Upload your magazine PDF (up to {{.MaxUploadMB}} MB):
    <input type="file" name="pdf" accept="application/pdf,.pdf" required></label></p>
  <p>
    <label><input type="radio" name="mode" value="basic" checked> Basic report</label>
    <label><input type="radio" name="mode" value="detailed"> Detailed report</label>
  </p>
  <p><button type="submit">Analyze</button></p>
</form>

{{with .Error}}<p class="error">{{.}}</p>{{end}}

{{with .Result}}
<section id="results">
  <h2>Results</h2>
  {{range .Notes}}<p class="note">{{.}}</p>{{end}}
  <table class="stats">
    <tr><td>Word count</td><td id="word-count">{{.WordCount}}</td></tr>
    <tr><td>Images detected</td><td id="image-count">{{.ImageCount}}</td></tr>
    {{if .Detailed}}
    <tr><td>Pages</td><td id="page-count">{{.PageCount}}</td></tr>
    <tr><td>Fonts used</td><td id="fonts">{{.Fonts}}</td></tr>
    {{end}}
    {{with .Language}}<tr><td>Language</td><td id="language">{{.}}</td></tr>{{end}}
    {{with .TopKeywords}}<tr><td>Top keywords</td><td id="keywords">{{range $i, $k := .}}{{if $i}}, {{end}}{{$k}}{{end}}</td></tr>{{end}}
  </table>

  {{if .Detailed}}
  <h3>Cover convention summary</h3>
  <ul id="conventions">
    {{range .Conventions}}<li data-detected="{{.Detected}}">{{.Label}}: {{if .Detected}}Yes{{else}}No{{end}}</li>{{end}}
  </ul>
  {{end}}

  <h3>Excerpt</h3>
  <blockquote id="excerpt">{{.Excerpt}}</blockquote>

  <p><a id="download" href="{{.DownloadURL}}" download="{{.Filename}}">Download feedback ({{.Filename}})</a></p>

  <div class="feedback">{{.Feedback}}</div>
</section>
{{end}}
</body>
</html>
`))
