// ABOUTME: Image library CLI commands
// ABOUTME: Adds, lists, recategorizes, and deletes managed images
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
)

// AddImageCommand registers an image URL in the library.
func AddImageCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	url := fs.String("url", "", "Image URL (required)")
	title := fs.String("title", "", "Title")
	alt := fs.String("alt", "", "Alt text")
	category := fs.String("category", models.CategoryOther, "Category ("+strings.Join(models.ImageCategories, ", ")+")")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	if *url == "" {
		return fmt.Errorf("--url is required")
	}

	img, err := app.Images.Add(models.ManagedImage{
		URL:      *url,
		Title:    *title,
		Alt:      *alt,
		Category: *category,
		Tags:     splitTags(*tags),
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Image added: %s (ID: %s)\n", img.URL, img.ID)
	return nil
}

// ListImagesCommand lists library images.
func ListImagesCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Search title, alt text, URL, and tags")
	category := fs.String("category", "all", "Filter by category")
	_ = fs.Parse(args)

	images := app.Images.Search(*query, *category)
	if len(images) == 0 {
		fmt.Println("No images found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tCATEGORY\tACTIVE\tUSED IN\tURL\tID")
	_, _ = fmt.Fprintln(w, "-----\t--------\t------\t-------\t---\t--")
	for _, img := range images {
		active := "yes"
		if !img.IsActive {
			active = "no"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			orDash(img.Title), img.Category, active, len(img.UsedIn), img.URL, shortID(img.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d image(s)\n", len(images))
	return nil
}

// CategorizeImageCommand moves an image to another category.
func CategorizeImageCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("category", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: images category <id> <category>")
	}
	id, err := findImageID(app, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := app.Images.SetCategory(id, fs.Arg(1)); err != nil {
		return err
	}

	fmt.Printf("✓ Image %s moved to %s\n", shortID(id), fs.Arg(1))
	return nil
}

// DeleteImageCommand removes an image from the library.
func DeleteImageCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("image ID is required")
	}
	id, err := findImageID(app, fs.Arg(0))
	if err != nil {
		return err
	}
	app.Images.Delete(id)

	fmt.Printf("✓ Deleted image %s\n", shortID(id))
	return nil
}

func findImageID(app *store.App, id string) (string, error) {
	if _, err := app.Images.Get(id); err == nil {
		return id, nil
	}
	match := ""
	for _, img := range app.Images.All() {
		if len(id) >= 4 && strings.HasPrefix(img.ID, id) {
			if match != "" {
				return "", fmt.Errorf("ambiguous image ID: %s", id)
			}
			match = img.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("image not found: %s", id)
	}
	return match, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
