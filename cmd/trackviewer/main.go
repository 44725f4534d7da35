// Track validation plot viewer: browses the image files a validation run
// produced without leaving the terminal for an external image viewer.
package main

import (
	"flag"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func listPlots(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".svg", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

func main() {
	var dirFlag string
	flag.StringVar(&dirFlag, "dir", ".", "Directory holding validation plot images")
	flag.Parse()

	a := app.NewWithID("com.detray.trackviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Track Validation Viewer")
	w.Resize(fyne.NewSize(1100, 800))

	files := listPlots(dirFlag)

	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(780, 700))

	nameLabel := widget.NewLabel("")

	list := widget.NewList(
		func() int { return len(files) },
		func() fyne.CanvasObject { return widget.NewLabel("plot") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id < len(files) {
				o.(*widget.Label).SetText(filepath.Base(files[id]))
			}
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		if id >= len(files) {
			return
		}
		img.File = files[id]
		img.Refresh()
		nameLabel.SetText(filepath.Base(files[id]))
	}

	reload := widget.NewButton("Reload", func() {
		files = listPlots(dirFlag)
		list.Refresh()
	})

	top := container.NewHBox(reload, widget.NewLabel("Dir: "+dirFlag), nameLabel)
	split := container.NewHSplit(list, img)
	split.SetOffset(0.28)
	w.SetContent(container.NewBorder(top, nil, nil, nil, split))
	w.ShowAndRun()
}
