package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle       = "app_title"
	KeyFile           = "file"
	KeyOpenFolder     = "open_folder"
	KeySaveAs         = "save_as"
	KeyDelete         = "delete"
	KeySettings       = "settings"
	KeyLanguage       = "language"
	KeySave           = "save"
	KeyCancel         = "cancel"
	KeyBrowse         = "browse"
	KeySourceDir      = "source_dir"
	KeyResourceDir    = "resource_dir"
	KeyLoadingImage   = "loading_image"
	KeySwitchInterval = "switch_interval"
	KeyCacheBudget    = "cache_budget"
	KeyDeleteConfirm  = "delete_confirm"
	KeySavedTo        = "saved_to"
	KeySaveFailed     = "save_failed"
	KeySettingsSaved  = "settings_saved"
	KeyNoImages       = "no_images"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:       "Images",
		KeyFile:           "File",
		KeyOpenFolder:     "Open Folder…",
		KeySaveAs:         "Save As…",
		KeyDelete:         "Delete",
		KeySettings:       "Settings",
		KeyLanguage:       "Language",
		KeySave:           "Save",
		KeyCancel:         "Cancel",
		KeyBrowse:         "Browse",
		KeySourceDir:      "Image Directory",
		KeyResourceDir:    "Asset Directory",
		KeyLoadingImage:   "Loading Animation",
		KeySwitchInterval: "Switch Interval (ms)",
		KeyCacheBudget:    "Cache Budget (bytes)",
		KeyDeleteConfirm:  "Delete this image?",
		KeySavedTo:        "Saved to",
		KeySaveFailed:     "Save failed",
		KeySettingsSaved:  "Settings saved successfully!",
		KeyNoImages:       "No images in this directory",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:       "Изображения",
		KeyFile:           "Файл",
		KeyOpenFolder:     "Открыть папку…",
		KeySaveAs:         "Сохранить как…",
		KeyDelete:         "Удалить",
		KeySettings:       "Настройки",
		KeyLanguage:       "Язык",
		KeySave:           "Сохранить",
		KeyCancel:         "Отмена",
		KeyBrowse:         "Обзор",
		KeySourceDir:      "Папка изображений",
		KeyResourceDir:    "Папка ресурсов",
		KeyLoadingImage:   "Анимация загрузки",
		KeySwitchInterval: "Интервал переключения (мс)",
		KeyCacheBudget:    "Лимит кэша (байт)",
		KeyDeleteConfirm:  "Удалить это изображение?",
		KeySavedTo:        "Сохранено в",
		KeySaveFailed:     "Ошибка сохранения",
		KeySettingsSaved:  "Настройки успешно сохранены!",
		KeyNoImages:       "В этой папке нет изображений",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:       "Imagens",
		KeyFile:           "Arquivo",
		KeyOpenFolder:     "Abrir Pasta…",
		KeySaveAs:         "Salvar Como…",
		KeyDelete:         "Excluir",
		KeySettings:       "Configurações",
		KeyLanguage:       "Idioma",
		KeySave:           "Salvar",
		KeyCancel:         "Cancelar",
		KeyBrowse:         "Navegar",
		KeySourceDir:      "Diretório de Imagens",
		KeyResourceDir:    "Diretório de Recursos",
		KeyLoadingImage:   "Animação de Carregamento",
		KeySwitchInterval: "Intervalo de Troca (ms)",
		KeyCacheBudget:    "Limite do Cache (bytes)",
		KeyDeleteConfirm:  "Excluir esta imagem?",
		KeySavedTo:        "Salvo em",
		KeySaveFailed:     "Falha ao salvar",
		KeySettingsSaved:  "Configurações salvas com sucesso!",
		KeyNoImages:       "Nenhuma imagem neste diretório",
	}
}
