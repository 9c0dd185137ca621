package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyPlay              = "play"
	KeyDownload          = "download"
	KeyPokecenter        = "pokecenter"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyCheckUpdates      = "check_updates"
	KeyDownloadMissing   = "download_missing"
	KeyOpenFolder        = "open_folder"
	KeySoundEnabled      = "sound_enabled"
	KeyCustomRuntime     = "custom_runtime"
	KeyBrowse            = "browse"
	KeyResetSettings     = "reset_settings"
	KeyResetConfirm      = "reset_confirm"
	KeySettingsSaved     = "settings_saved"
	KeyGameMissing       = "game_missing"
	KeyRuntimeMissing    = "runtime_missing"
	KeyBusy              = "busy"
	KeyNotInstalled      = "not_installed"
	KeyReady             = "ready"
	KeyUpdatesInstalled  = "updates_installed"
	KeyErrorLaunching    = "error_launching"
	KeyErrorOpeningSite  = "error_opening_site"
	KeyRuntimeInstalled  = "runtime_installed"
	KeyErrorCustomPlayer = "error_custom_player"
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

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

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

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "PTD Launcher",
		KeyPlay:              "Play",
		KeyDownload:          "Download",
		KeyPokecenter:        "PokéCenter",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyCheckUpdates:      "Check for updates",
		KeyDownloadMissing:   "Download missing games",
		KeyOpenFolder:        "Open games folder",
		KeySoundEnabled:      "Sound effects",
		KeyCustomRuntime:     "Custom Flash Player",
		KeyBrowse:            "Browse",
		KeyResetSettings:     "Reset settings",
		KeyResetConfirm:      "Restore default settings? The official Flash Player will be downloaded on the next update.",
		KeySettingsSaved:     "Settings saved",
		KeyGameMissing:       "%s is not downloaded. Download it now?",
		KeyRuntimeMissing:    "Flash Player is not installed. Download it now?",
		KeyBusy:              "An update is already running. Please wait for it to finish.",
		KeyNotInstalled:      "Not installed",
		KeyReady:             "Ready",
		KeyUpdatesInstalled:  "Updates installed",
		KeyErrorLaunching:    "Could not launch the game",
		KeyErrorOpeningSite:  "Could not open the website",
		KeyRuntimeInstalled:  "Custom Flash Player installed",
		KeyErrorCustomPlayer: "Could not install the selected Flash Player",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "PTD Лаунчер",
		KeyPlay:              "Играть",
		KeyDownload:          "Скачать",
		KeyPokecenter:        "PokéCenter",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyCheckUpdates:      "Проверить обновления",
		KeyDownloadMissing:   "Скачать недостающие игры",
		KeyOpenFolder:        "Открыть папку игр",
		KeySoundEnabled:      "Звуковые эффекты",
		KeyCustomRuntime:     "Свой Flash Player",
		KeyBrowse:            "Обзор",
		KeyResetSettings:     "Сбросить настройки",
		KeyResetConfirm:      "Восстановить настройки по умолчанию? Официальный Flash Player будет скачан при следующем обновлении.",
		KeySettingsSaved:     "Настройки сохранены",
		KeyGameMissing:       "%s не скачана. Скачать сейчас?",
		KeyRuntimeMissing:    "Flash Player не установлен. Скачать сейчас?",
		KeyBusy:              "Обновление уже выполняется. Дождитесь завершения.",
		KeyNotInstalled:      "Не установлено",
		KeyReady:             "Готово",
		KeyUpdatesInstalled:  "Обновления установлены",
		KeyErrorLaunching:    "Не удалось запустить игру",
		KeyErrorOpeningSite:  "Не удалось открыть сайт",
		KeyRuntimeInstalled:  "Свой Flash Player установлен",
		KeyErrorCustomPlayer: "Не удалось установить выбранный Flash Player",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "PTD Launcher",
		KeyPlay:              "Jogar",
		KeyDownload:          "Baixar",
		KeyPokecenter:        "PokéCenter",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyCheckUpdates:      "Verificar atualizações",
		KeyDownloadMissing:   "Baixar jogos ausentes",
		KeyOpenFolder:        "Abrir pasta de jogos",
		KeySoundEnabled:      "Efeitos sonoros",
		KeyCustomRuntime:     "Flash Player personalizado",
		KeyBrowse:            "Navegar",
		KeyResetSettings:     "Redefinir configurações",
		KeyResetConfirm:      "Restaurar configurações padrão? O Flash Player oficial será baixado na próxima atualização.",
		KeySettingsSaved:     "Configurações salvas",
		KeyGameMissing:       "%s não foi baixado. Baixar agora?",
		KeyRuntimeMissing:    "O Flash Player não está instalado. Baixar agora?",
		KeyBusy:              "Uma atualização já está em andamento. Aguarde.",
		KeyNotInstalled:      "Não instalado",
		KeyReady:             "Pronto",
		KeyUpdatesInstalled:  "Atualizações instaladas",
		KeyErrorLaunching:    "Não foi possível iniciar o jogo",
		KeyErrorOpeningSite:  "Não foi possível abrir o site",
		KeyRuntimeInstalled:  "Flash Player personalizado instalado",
		KeyErrorCustomPlayer: "Não foi possível instalar o Flash Player selecionado",
	}
}
