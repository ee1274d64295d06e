package ui

import (
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/imgview/imgview/internal/config"
	"github.com/imgview/imgview/internal/viewer"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization

	surface    *ImageSurface
	controller *viewer.Controller

	// Loading indicator under the surface (hidden by default)
	loadingPanel   *fyne.Container
	loadingLabel   *widget.Label
	loadingSpinner *widget.ProgressBarInfinite

	// lastSource filters the preference change listener, which fires on
	// every preference write, not just the source key.
	lastSource string

	log *logrus.Entry
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		lastSource:   settings.GetSource(),
		log:          logrus.WithField("component", "ui"),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.surface = NewImageSurface(ui.onNavigate, ui.onSurfaceResize)
	ui.surface.SetOnPaint(ui.onFramePainted)
	ui.surface.SetOnLongPress(ui.onDelete)

	ui.controller = viewer.NewController(viewer.Config{
		Source:         ui.lastSource,
		ResourcePath:   settings.GetResourcePath(),
		LoadingImage:   settings.GetLoadingImage(),
		CacheMaxBytes:  settings.GetCacheMaxBytes(),
		SwitchInterval: time.Duration(settings.GetSwitchIntervalMs()) * time.Millisecond,
	}, ui.surface.Viewport(), ui.loadingReporter())

	settings.OnSourceChanged(ui.onSourceSetting)

	ui.setupUI()
	return ui
}

// Start shows the first image. Call after the window is visible so the
// surface has its real size.
func (ui *RootUI) Start() {
	if len(ui.controller.Images()) == 0 {
		ui.log.WithField("source", ui.lastSource).Warn("no images in source directory")
		ui.showToast(ui.localization.GetText(KeyAppTitle), ui.localization.GetText(KeyNoImages))
		return
	}
	go ui.controller.Show(0, 0)
}

// Close releases the viewer's background tasks.
func (ui *RootUI) Close() {
	size := ui.window.Canvas().Size()
	ui.settings.SetWindowSize(int(size.Width), int(size.Height))
	ui.controller.Close()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	// Loading panel under the surface (hidden by default)
	ui.loadingLabel = widget.NewLabel("")
	ui.loadingLabel.Alignment = fyne.TextAlignLeading
	ui.loadingSpinner = widget.NewProgressBarInfinite()
	ui.loadingSpinner.Stop()
	ui.loadingPanel = container.NewHBox(ui.loadingSpinner, container.NewPadded(ui.loadingLabel))
	ui.loadingPanel.Hide()

	content := container.NewBorder(nil, ui.loadingPanel, nil, nil, ui.surface)
	ui.window.SetContent(content)

	ui.bindKeys()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	openItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)
	saveItem := fyne.NewMenuItem(ui.localization.GetText(KeySaveAs), ui.onSaveAs)
	deleteItem := fyne.NewMenuItem(ui.localization.GetText(KeyDelete), ui.onDelete)
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	// Language submenu
	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	for code, name := range availableLanguages {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile),
			openItem, saveItem, deleteItem,
			fyne.NewMenuItemSeparator(), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// bindKeys wires keyboard navigation: arrows and a/d switch, Delete removes,
// Ctrl+Q/Ctrl+E rotate, Ctrl+S saves.
func (ui *RootUI) bindKeys() {
	canvas := ui.window.Canvas()

	canvas.SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyLeft, fyne.KeyA:
			ui.onNavigate(-1)
		case fyne.KeyRight, fyne.KeyD:
			ui.onNavigate(1)
		case fyne.KeyDelete:
			ui.onDelete()
		}
	})

	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { go ui.controller.HandleRotate(-1) })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { go ui.controller.HandleRotate(1) })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { ui.onSaveAs() })
}

// onNavigate moves to the previous or next image.
func (ui *RootUI) onNavigate(delta int) {
	go ui.controller.HandleSwitch(delta)
}

// onSurfaceResize forwards surface size changes to the viewer's debouncer.
func (ui *RootUI) onSurfaceResize() {
	ui.controller.HandleResize()
}

// onFramePainted keeps the window title in sync with the displayed bitmap.
func (ui *RootUI) onFramePainted(img image.Image) {
	item := ui.controller.CurrentItem()
	if item == nil || img == nil {
		return
	}
	path := item.Path()
	if path == "" {
		return
	}
	b := img.Bounds()
	title := fmt.Sprintf(WindowTitleFormat, filepath.Base(path), b.Dx(), b.Dy())
	fyne.Do(func() {
		ui.window.SetTitle(title)
	})
}

// onSourceSetting reacts to the source preference. Fyne fires the listener
// for every preference write, so unchanged values are dropped here.
func (ui *RootUI) onSourceSetting(dir string) {
	if dir == "" || dir == ui.lastSource {
		return
	}
	ui.lastSource = dir
	ui.log.WithField("source", dir).Info("source directory changed")
	go ui.controller.UpdateSource(dir)
}

// onOpenFolder lets the user pick a new image directory.
func (ui *RootUI) onOpenFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		// Stored through settings so the change listener does the reload.
		ui.settings.SetSource(uri.Path())
	}, ui.window)
}

// onSaveAs exports the current image, rotation applied, to a user-picked path.
func (ui *RootUI) onSaveAs() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		target := writer.URI().Path()
		writer.Close()

		go func() {
			if saveErr := ui.controller.SaveCurrent(target); saveErr != nil {
				ui.log.WithError(saveErr).Error("save failed")
				ui.showToast(ui.localization.GetText(KeySaveFailed), saveErr.Error())
				return
			}
			ui.showToast(ui.localization.GetText(KeySavedTo), target)
		}()
	}, ui.window)
}

// onDelete removes the current image after confirmation.
func (ui *RootUI) onDelete() {
	go func() {
		if err := ui.controller.DeleteCurrent(ui.confirmDelete); err != nil {
			ui.log.WithError(err).Error("delete failed")
		}
	}()
}

// confirmDelete blocks its caller on a yes/no dialog. Must not run on the
// Fyne thread.
func (ui *RootUI) confirmDelete(string) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		dialog.ShowConfirm(
			ui.localization.GetText(KeyDelete),
			ui.localization.GetText(KeyDeleteConfirm),
			func(ok bool) { answer <- ok },
			ui.window,
		)
	})
	return <-answer
}

// onShowSettings displays the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, ui.localization).Show()
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	// Recreate menu to update labels and checkmarks
	ui.createMenu()
}

// loadingReporter builds the fallback progress indicator shown while an
// animation streams in and no loading gif asset is available.
func (ui *RootUI) loadingReporter() viewer.ProgressReporter {
	return &loadingReporter{ui: ui}
}

// loadingReporter counts frames atomically: Step arrives from concurrent
// pipeline workers.
type loadingReporter struct {
	ui     *RootUI
	frames atomic.Int64
}

func (r *loadingReporter) Start() {
	r.frames.Store(0)
	fyne.Do(func() {
		r.ui.loadingLabel.SetText(fmt.Sprintf(LoadingLabelFormat, 0))
		r.ui.loadingSpinner.Start()
		r.ui.loadingPanel.Show()
	})
}

func (r *loadingReporter) Step() {
	count := r.frames.Add(1)
	fyne.Do(func() {
		r.ui.loadingLabel.SetText(fmt.Sprintf(LoadingLabelFormat, count))
	})
}

func (r *loadingReporter) Done() {
	fyne.Do(func() {
		r.ui.loadingSpinner.Stop()
		r.ui.loadingPanel.Hide()
	})
}

// showToast shows a transient in-app notification in the top-right corner.
func (ui *RootUI) showToast(title, message string) {
	fyne.Do(func() {
		titleLabel := widget.NewLabel(title)
		titleLabel.TextStyle = fyne.TextStyle{Bold: true}

		messageLabel := widget.NewLabel(message)
		messageLabel.Truncation = fyne.TextTruncateEllipsis

		var toastPopup *widget.PopUp
		closeBtn := widget.NewButton("×", func() {
			if toastPopup != nil {
				toastPopup.Hide()
			}
		})
		closeBtn.Importance = widget.LowImportance

		header := container.NewBorder(nil, nil, titleLabel, closeBtn)
		content := container.NewVBox(header, messageLabel)

		toastPopup = widget.NewPopUp(content, ui.window.Canvas())

		// Position in top-right corner
		canvasSize := ui.window.Canvas().Size()
		toastSize := fyne.NewSize(ToastWidth, ToastHeight)
		toastPos := fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin)

		toastPopup.Resize(toastSize)
		toastPopup.Move(toastPos)
		toastPopup.Show()

		// Auto-hide after configured time
		go func() {
			time.Sleep(ToastAutoHide)
			fyne.Do(toastPopup.Hide)
		}()
	})
}
