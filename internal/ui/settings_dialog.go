package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/imgview/imgview/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	dialog       *dialog.ConfirmDialog

	// UI components
	sourceDirEntry      *widget.Entry
	resourceDirEntry    *widget.Entry
	loadingImageEntry   *widget.Entry
	switchIntervalEntry *widget.Entry
	cacheBudgetEntry    *widget.Entry
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: localization,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	// Image directory selection
	sd.sourceDirEntry = widget.NewEntry()
	sd.sourceDirEntry.SetPlaceHolder("Image directory path")

	browseDirBtn := widget.NewButton(sd.localization.GetText(KeyBrowse), sd.onBrowseDirectory)
	sourceDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.sourceDirEntry)

	// Asset directory with the loading animation
	sd.resourceDirEntry = widget.NewEntry()
	sd.resourceDirEntry.SetPlaceHolder("Asset directory path")

	sd.loadingImageEntry = widget.NewEntry()
	sd.loadingImageEntry.SetPlaceHolder(config.DefaultLoadingImage)

	// Switch throttle interval
	sd.switchIntervalEntry = widget.NewEntry()
	sd.switchIntervalEntry.SetPlaceHolder(strconv.Itoa(config.DefaultSwitchIntervalMs))

	// Animation cache budget
	sd.cacheBudgetEntry = widget.NewEntry()
	sd.cacheBudgetEntry.SetPlaceHolder(strconv.Itoa(config.DefaultCacheMaxBytes))

	// Create form
	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeySourceDir)+":"),
		sourceDirRow,

		widget.NewLabel(sd.localization.GetText(KeyResourceDir)+":"),
		sd.resourceDirEntry,

		widget.NewLabel(sd.localization.GetText(KeyLoadingImage)+":"),
		sd.loadingImageEntry,

		widget.NewSeparator(),

		widget.NewLabel(sd.localization.GetText(KeySwitchInterval)+":"),
		sd.switchIntervalEntry,

		widget.NewLabel(sd.localization.GetText(KeyCacheBudget)+":"),
		sd.cacheBudgetEntry,
	)

	// Create dialog with buttons
	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.sourceDirEntry.SetText(sd.settings.GetSource())
	sd.resourceDirEntry.SetText(sd.settings.GetResourcePath())
	sd.loadingImageEntry.SetText(sd.settings.GetLoadingImage())
	sd.switchIntervalEntry.SetText(strconv.Itoa(sd.settings.GetSwitchIntervalMs()))
	sd.cacheBudgetEntry.SetText(strconv.FormatInt(sd.settings.GetCacheMaxBytes(), 10))
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.sourceDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	// Save the image directory last: its change listener reloads the viewer,
	// and it should see the other values already stored.
	if sd.resourceDirEntry.Text != "" {
		sd.settings.SetResourcePath(sd.resourceDirEntry.Text)
	}
	if sd.loadingImageEntry.Text != "" {
		sd.settings.SetLoadingImage(sd.loadingImageEntry.Text)
	}
	if ms, err := strconv.Atoi(sd.switchIntervalEntry.Text); err == nil {
		sd.settings.SetSwitchIntervalMs(ms)
	}
	if size, err := strconv.ParseInt(sd.cacheBudgetEntry.Text, 10, 64); err == nil {
		sd.settings.SetCacheMaxBytes(size)
	}
	if sd.sourceDirEntry.Text != "" {
		sd.settings.SetSource(sd.sourceDirEntry.Text)
	}

	// Show confirmation
	dialog.ShowInformation(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySettingsSaved),
		sd.window,
	)
}
