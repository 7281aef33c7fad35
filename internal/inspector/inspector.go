// Package inspector provides read and curation access to the record
// store: listing, statistics and manual project tagging.
package inspector

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"tunedex/internal/models"
	"tunedex/internal/store"
)

// Inspector renders and curates the shared store.
type Inspector struct {
	store *store.Store
	out   io.Writer
}

func New(st *store.Store, out io.Writer) *Inspector {
	return &Inspector{store: st, out: out}
}

// List renders every record with its status.
func (i *Inspector) List() {
	records := i.store.Load()
	if len(records) == 0 {
		fmt.Fprintln(i.out, "The store is empty.")
		return
	}
	i.renderTable(records, nil)
}

// FindByProject renders the records whose project contains name,
// case-insensitively.
func (i *Inspector) FindByProject(name string) {
	records := i.store.Load()
	needle := strings.ToLower(name)

	var indices []int
	for idx, rec := range records {
		if strings.Contains(strings.ToLower(rec.Project), needle) {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		fmt.Fprintf(i.out, "No entries found for project %q.\n", name)
		return
	}
	i.renderTable(records, indices)
}

// SetProject updates the project tag of the record at the given 1-based
// position. Project is the only field manual curation may touch.
func (i *Inspector) SetProject(position int, project string) error {
	records := i.store.Load()
	if position < 1 || position > len(records) {
		return fmt.Errorf("position %d out of range, store has %d entries", position, len(records))
	}
	records[position-1].Project = project
	if err := i.store.Save(records); err != nil {
		return err
	}
	fmt.Fprintf(i.out, "Updated entry %d (%s) with project %q.\n", position, records[position-1].Title, project)
	return nil
}

// Stats prints totals per status and a per-project breakdown.
func (i *Inspector) Stats() {
	records := i.store.Load()

	var done, timeout, pending int
	projects := make(map[string]int)
	for _, rec := range records {
		switch rec.Done {
		case models.StatusDone:
			done++
		case models.StatusTimeout:
			timeout++
		default:
			pending++
		}
		if rec.Project != "" {
			projects[rec.Project]++
		}
	}

	fmt.Fprintf(i.out, "Total entries: %d\n", len(records))
	fmt.Fprintf(i.out, "  done:    %d\n", done)
	fmt.Fprintf(i.out, "  pending: %d\n", pending)
	fmt.Fprintf(i.out, "  timeout: %d\n", timeout)

	if len(projects) == 0 {
		return
	}
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(i.out, "Projects:")
	for _, name := range names {
		fmt.Fprintf(i.out, "  %s: %d\n", name, projects[name])
	}
}

// renderTable prints the given records; indices narrows the view while
// keeping the 1-based positions of the full store.
func (i *Inspector) renderTable(records []models.Record, indices []int) {
	t := table.NewWriter()
	t.SetOutputMirror(i.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Status", "Project", "Download Path", "URL"})

	if indices == nil {
		indices = make([]int, len(records))
		for idx := range records {
			indices[idx] = idx
		}
	}
	for _, idx := range indices {
		rec := records[idx]
		project := rec.Project
		if project == "" {
			project = "-"
		}
		path := rec.DownloadPath
		if path == "" {
			path = "-"
		}
		t.AppendRow(table.Row{idx + 1, rec.Title, rec.Done.String(), project, path, rec.URL})
	}
	t.Render()
}
