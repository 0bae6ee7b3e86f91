// ABOUTME: Page content CLI commands
// ABOUTME: Shows, edits, reorders, seeds, and exports page components
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"gopkg.in/yaml.v3"
)

// ShowContentCommand lists pages, or the components of one page.
func ShowContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if fs.NArg() == 0 {
		_, _ = fmt.Fprintln(w, "PAGE\tTITLE\tCOMPONENTS")
		_, _ = fmt.Fprintln(w, "----\t-----\t----------")
		for _, p := range app.Content.Pages() {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.Title, len(p.Components))
		}
		return w.Flush()
	}

	page, err := app.Content.Page(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n\n", page.Name, page.Title)
	_, _ = fmt.Fprintln(w, "#\tID\tNAME\tTYPE\tACTIVE")
	_, _ = fmt.Fprintln(w, "-\t--\t----\t----\t------")
	for _, c := range page.Components {
		active := "yes"
		if !c.IsActive {
			active = "no"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.Order, c.ID, c.Name, c.Type, active)
	}
	return w.Flush()
}

// SetContentCommand merges key=value settings into a component.
// Values are parsed as YAML scalars; an empty value removes the key.
func SetContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	name := fs.String("name", "", "Rename the component")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: content set [--name <name>] <page> <component> [key=value...]")
	}
	page, componentID := fs.Arg(0), fs.Arg(1)

	settings, err := parseSettings(fs.Args()[2:])
	if err != nil {
		return err
	}
	if len(settings) == 0 && *name == "" {
		return fmt.Errorf("nothing to change")
	}

	if len(settings) > 0 {
		if err := app.Content.UpdateSettings(page, componentID, settings); err != nil {
			return err
		}
	}
	if *name != "" {
		if err := app.Content.Rename(page, componentID, *name); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Updated %s/%s\n", page, componentID)
	return nil
}

func parseSettings(pairs []string) (map[string]interface{}, error) {
	settings := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q: expected key=value", pair)
		}
		if raw == "" {
			settings[key] = nil
			continue
		}
		var value interface{}
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		settings[key] = value
	}
	return settings, nil
}

// ToggleContentCommand shows or hides a component.
func ToggleContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: content toggle <page> <component>")
	}

	page, err := app.Content.Page(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, c := range page.Components {
		if c.ID != fs.Arg(1) {
			continue
		}
		if err := app.Content.SetActive(page.Name, c.ID, !c.IsActive); err != nil {
			return err
		}
		state := "visible"
		if c.IsActive {
			state = "hidden"
		}
		fmt.Printf("✓ %s/%s is now %s\n", page.Name, c.ID, state)
		return nil
	}
	return fmt.Errorf("component %s: %w", fs.Arg(1), store.ErrNotFound)
}

// MoveContentCommand moves a component to a new position on its page.
func MoveContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 3 {
		return fmt.Errorf("usage: content move <page> <component> <position>")
	}
	index, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	if err := app.Content.MoveComponent(fs.Arg(0), fs.Arg(1), index); err != nil {
		return err
	}
	fmt.Printf("✓ Moved %s/%s\n", fs.Arg(0), fs.Arg(1))
	return nil
}

// SeedContentCommand replaces all pages from a YAML file, or the built-in defaults.
func SeedContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "", "YAML content document (default: built-in pages)")
	_ = fs.Parse(args)

	if *file == "" {
		app.Content.ResetDefaults()
		fmt.Println("✓ Restored default content")
		return nil
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *file, err)
	}
	pages, err := store.ParsePages(data)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%s contains no pages", *file)
	}

	app.Content.ReplacePages(pages)
	fmt.Printf("✓ Loaded %d page(s) from %s\n", len(pages), *file)
	return nil
}

// ExportContentCommand writes every page as a YAML document that seed accepts.
func ExportContentCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	doc := struct {
		Pages []models.PageContent `yaml:"pages"`
	}{Pages: app.Content.Pages()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	if *output != "" {
		return os.WriteFile(*output, data, 0644)
	}
	fmt.Print(string(data))
	return nil
}
