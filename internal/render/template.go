package render

// layoutHTML is the print stylesheet and page skeleton. Colors and sizing
// track the styling choices loosely through CSS classes; print rules avoid
// breaking inside an entry block where the engine can help it.
const layoutHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  font-family: 'Arial', sans-serif;
  line-height: 1.4;
  color: #333;
  background: white;
  padding: 40px;
  max-width: 800px;
  margin: 0 auto;
}
body.font-small { font-size: 12px; }
body.font-medium { font-size: 14px; }
body.font-large { font-size: 16px; }
.header { text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 2px solid #e5e7eb; }
.header h1 { font-size: 32px; font-weight: bold; color: #1f2937; margin-bottom: 8px; }
.header .contact { font-size: 14px; color: #6b7280; line-height: 1.6; }
.section { margin-bottom: 25px; }
.section h2 { font-size: 18px; font-weight: bold; color: #1f2937; border-bottom: 1px solid #e5e7eb; padding-bottom: 5px; margin-bottom: 15px; }
.summary { line-height: 1.6; color: #4b5563; }
.entry { margin-bottom: 20px; }
.entry-header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 5px; }
.entry-title { font-weight: bold; font-size: 16px; color: #1f2937; }
.entry-dates { font-size: 14px; color: #6b7280; white-space: nowrap; }
.entry-subtitle { font-size: 14px; color: #6b7280; margin-bottom: 8px; }
.entry-body { line-height: 1.5; color: #4b5563; white-space: pre-line; }
.entry-bullets { margin: 6px 0 0 18px; color: #4b5563; }
.skills { display: flex; flex-wrap: wrap; gap: 8px; }
.skill-tag { background-color: #f3f4f6; color: #374151; padding: 4px 12px; border-radius: 16px; font-size: 13px; font-weight: 500; }
.raw-field { margin-bottom: 4px; color: #4b5563; }
.raw-field .key { font-weight: bold; }
@media print {
  body { padding: 20px; }
  .entry { page-break-inside: avoid; }
}
</style>
</head>
<body class="scheme-{{.ColorScheme}} font-{{.FontSize}}">
<div class="header">
<h1>{{.Header.FullName}}</h1>
<div class="contact">{{range .Header.ContactLines}}<div>{{.}}</div>{{end}}</div>
</div>
{{range .Sections}}<div class="section">
<h2>{{.Title}}</h2>
{{if eq .Kind "summary"}}<div class="summary">{{.Text}}</div>
{{else if eq .Kind "skills"}}<div class="skills">{{range .Skills}}<span class="skill-tag">{{.}}</span>{{end}}</div>
{{else if eq .Kind "entries"}}{{range .Entries}}<div class="entry">
<div class="entry-header"><div class="entry-title">{{.Title}}</div>{{if .Dates}}<div class="entry-dates">{{.Dates}}</div>{{end}}</div>
{{if .Subtitle}}<div class="entry-subtitle">{{.Subtitle}}</div>{{end}}
{{if .Body}}<div class="entry-body">{{.Body}}</div>{{end}}
{{if .Bullets}}<ul class="entry-bullets">{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>{{end}}
{{else}}{{range .Raw}}<div class="raw-field"><span class="key">{{.Key}}:</span> {{.Value}}</div>{{end}}
{{end}}</div>
{{end}}</body>
</html>
`
