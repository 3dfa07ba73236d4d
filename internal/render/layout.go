// Package render turns a resume document snapshot into a styled HTML layout
// and a paginated PDF artifact. Rendering is deterministic: the same snapshot
// yields byte-identical markup.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/resume"
)

// headerView is the personal block rendered first regardless of order.
type headerView struct {
	FullName     string
	ContactLines []string
}

// entryView is one dated block (experience, education, project, certification).
type entryView struct {
	Title    string
	Subtitle string
	Dates    string
	Body     string
	Bullets  []string
}

// sectionView is the render model for one visible non-personal section.
type sectionView struct {
	Kind    string // "summary", "entries", "skills", "raw"
	Title   string
	Text    string
	Entries []entryView
	Skills  []string
	Raw     []rawField
}

type rawField struct {
	Key   string
	Value string
}

type layoutData struct {
	Title       string
	ColorScheme string
	FontSize    string
	Header      headerView
	Sections    []sectionView
}

var layoutTmpl = template.Must(template.New("layout").Parse(layoutHTML))

// Layout renders the document's visible sections, sorted by order, into a
// print-oriented HTML page. The personal section always renders first as the
// header block; hidden sections are skipped entirely.
func Layout(doc *resume.Document) (string, error) {
	data := layoutData{
		Title:       doc.Title,
		ColorScheme: doc.Styling.ColorScheme,
		FontSize:    doc.Styling.FontSize,
	}

	for _, sec := range doc.VisibleSections() {
		if sec.Type == resume.SectionPersonal {
			if p, ok := sec.Content.(*resume.PersonalContent); ok {
				data.Header = buildHeader(p)
			}
			continue
		}
		data.Sections = append(data.Sections, buildSection(sec))
	}
	if data.Header.FullName == "" {
		data.Header.FullName = "Your Name"
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render layout: %w", err)
	}
	return buf.String(), nil
}

func buildHeader(p *resume.PersonalContent) headerView {
	h := headerView{FullName: p.FullName}

	var primary []string
	for _, v := range []string{p.Email, p.Phone} {
		if v != "" {
			primary = append(primary, v)
		}
	}
	if len(primary) > 0 {
		h.ContactLines = append(h.ContactLines, strings.Join(primary, " • "))
	}
	if p.Location != "" {
		h.ContactLines = append(h.ContactLines, p.Location)
	}
	var links []string
	for _, v := range []string{p.LinkedIn, p.Website, p.GitHub} {
		if v != "" {
			links = append(links, v)
		}
	}
	if len(links) > 0 {
		h.ContactLines = append(h.ContactLines, strings.Join(links, " • "))
	}
	return h
}

func dateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	return start + " - " + end
}

func buildSection(sec resume.Section) sectionView {
	view := sectionView{Title: sec.Title}

	switch c := sec.Content.(type) {
	case *resume.SummaryContent:
		view.Kind = "summary"
		view.Text = c.Text

	case *resume.ExperienceContent:
		view.Kind = "entries"
		for _, exp := range c.Experiences {
			subtitle := exp.Company
			if exp.Location != "" {
				subtitle += " • " + exp.Location
			}
			view.Entries = append(view.Entries, entryView{
				Title:    exp.Position,
				Subtitle: subtitle,
				Dates:    dateRange(exp.StartDate, exp.EndDate),
				Body:     exp.Description,
				Bullets:  exp.Achievements,
			})
		}

	case *resume.EducationContent:
		view.Kind = "entries"
		for _, edu := range c.Education {
			title := edu.Degree
			if edu.Field != "" {
				title += ", " + edu.Field
			}
			subtitle := edu.Institution
			if edu.Location != "" {
				subtitle += " • " + edu.Location
			}
			body := ""
			if edu.GPA != "" {
				body = "GPA: " + edu.GPA
			}
			view.Entries = append(view.Entries, entryView{
				Title:    title,
				Subtitle: subtitle,
				Dates:    dateRange(edu.StartDate, edu.EndDate),
				Body:     body,
				Bullets:  edu.Achievements,
			})
		}

	case *resume.SkillsContent:
		view.Kind = "skills"
		view.Skills = c.Skills

	case *resume.ProjectsContent:
		view.Kind = "entries"
		for _, p := range c.Projects {
			subtitle := strings.Join(p.Technologies, ", ")
			if p.URL != "" {
				if subtitle != "" {
					subtitle += " • "
				}
				subtitle += p.URL
			}
			view.Entries = append(view.Entries, entryView{
				Title:    p.Name,
				Subtitle: subtitle,
				Dates:    dateRange(p.StartDate, p.EndDate),
				Body:     p.Description,
				Bullets:  p.Highlights,
			})
		}

	case *resume.CertificationsContent:
		view.Kind = "entries"
		for _, cert := range c.Certifications {
			view.Entries = append(view.Entries, entryView{
				Title:    cert.Name,
				Subtitle: cert.Issuer,
				Dates:    dateRange(cert.IssueDate, cert.ExpiryDate),
				Body:     cert.CredentialID,
			})
		}

	case *resume.CustomContent:
		view.Kind = "raw"
		view.Raw = rawFields(c.Fields)

	default:
		view.Kind = "raw"
	}
	return view
}

// rawFields flattens a free-form payload into sorted key-value pairs so
// custom sections render deterministically.
func rawFields(fields map[string]any) []rawField {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]rawField, 0, len(keys))
	for _, k := range keys {
		out = append(out, rawField{Key: k, Value: fmt.Sprintf("%v", fields[k])})
	}
	return out
}
