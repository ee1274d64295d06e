package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/imgview/imgview/internal/config"
	"github.com/imgview/imgview/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID = "com.imgview.imgview"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.WithField("version", version).Info("imgview starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewViewerTheme())

	myWindow := myApp.NewWindow("Images")

	settings := config.NewSettings(myApp)
	width, height := settings.GetWindowSize()
	myWindow.Resize(fyne.NewSize(float32(width), float32(height)))

	rootUI := ui.NewRootUI(myWindow, myApp)

	myWindow.SetCloseIntercept(func() {
		rootUI.Close()
		myWindow.Close()
	})

	myWindow.Show()
	rootUI.Start()
	myApp.Run()
}
