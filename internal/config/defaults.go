package config

const (
	defaultHomeDir             = "~"
	defaultSubsDir             = "~/autocontent/subs"
	defaultSourcesDir          = "~/autocontent/sources"
	defaultCacheDir            = "~/.cache/autocontent"
	defaultLogDir              = "~/.local/share/autocontent/logs"
	defaultLogRetentionDays    = 30
	defaultLanguage            = "en"
	defaultArtifactChars       = "-"
	defaultWindowSeconds       = 0.1
	defaultVolumeThreshold     = 0.01
	defaultEaseInSeconds       = 0.25
	defaultSampleRate          = 16000
	defaultImporter            = "yt-dlp"
	defaultAudioCodec          = "mp4a.40.2"
	defaultYtDlpBinary         = "yt-dlp"
	defaultYoutubeDLBinary     = "youtube-dl"
	defaultDownloadTimeout     = 0
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/autocontent/autocontent"
	defaultLLMTitle            = "autocontent"
	defaultLLMTimeoutSeconds   = 60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultTranscriptSanitize  = true
	defaultTranscriptUsesCache = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			HomeDir:    defaultHomeDir,
			SubsDir:    defaultSubsDir,
			SourcesDir: defaultSourcesDir,
			CacheDir:   defaultCacheDir,
			LogDir:     defaultLogDir,
		},
		Transcript: Transcript{
			Languages:     []string{defaultLanguage},
			ArtifactChars: defaultArtifactChars,
			Sanitize:      defaultTranscriptSanitize,
			CacheEnabled:  defaultTranscriptUsesCache,
		},
		Silence: Silence{
			WindowSeconds:   defaultWindowSeconds,
			VolumeThreshold: defaultVolumeThreshold,
			EaseInSeconds:   defaultEaseInSeconds,
			SampleRate:      defaultSampleRate,
		},
		Download: Download{
			Importer:        defaultImporter,
			Resolutions:     []string{"640x360", "426x240"},
			Extensions:      []string{"mp4", "webm"},
			AudioCodec:      defaultAudioCodec,
			YtDlpBinary:     defaultYtDlpBinary,
			YoutubeDLBinary: defaultYoutubeDLBinary,
			TimeoutSeconds:  defaultDownloadTimeout,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoFormats:  []string{"mp4", "mhtml", "3gpp", "webm"},
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
