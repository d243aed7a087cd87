package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/levain/internal/alert"
	"github.com/hammamikhairi/levain/internal/assistant"
	"github.com/hammamikhairi/levain/internal/companion"
	"github.com/hammamikhairi/levain/internal/config"
	"github.com/hammamikhairi/levain/internal/conversation"
	"github.com/hammamikhairi/levain/internal/display"
	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/speech"
	"github.com/hammamikhairi/levain/internal/timer"
	"github.com/hammamikhairi/levain/internal/weather"
)

var (
	runVerbose  bool
	runQuiet    bool
	runLogFile  string
	runNoSpeech bool
	runNoAI     bool
	runVoice    bool
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive baking companion",
		Args:  cobra.NoArgs,
		RunE:  runCompanion,
	}
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "enable verbose/debug logging")
	runCmd.Flags().BoolVar(&runQuiet, "quiet", false, "disable all logging")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", `file to write logs to (use "stderr" to log to console)`)
	runCmd.Flags().BoolVar(&runNoSpeech, "no-speech", false, "disable text-to-speech even if Azure keys are set")
	runCmd.Flags().BoolVar(&runNoAI, "no-ai", false, "disable the assistant even if a key is set")
	runCmd.Flags().BoolVar(&runVoice, "voice", false, "enable voice commands via local Whisper STT")
	rootCmd.AddCommand(runCmd)
}

func runCompanion(cmd *cobra.Command, _ []string) error {
	secrets := config.LoadSecrets()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logLevel := cfg.Log.LogLevel()
	if runVerbose {
		logLevel = logger.LevelVerbose
	}
	if runQuiet {
		logLevel = logger.LevelOff
	}
	if runLogFile != "" {
		cfg.Log.File = runLogFile
	}

	// Logs go to a file by default so the TUI stays clean.
	logOut, closeLog := openLog(cfg.Log.File)
	defer closeLog()

	// Third-party libs (whisper) use the default logger.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	b, err := openBakery(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	ui := display.NewUI()
	textNotifier := conversation.NewCLINotifier(log, ui.Printf)

	// One speaker serves both speech and the chime.
	var speaker *speech.Speaker
	if cfg.Alerts.Chime || !runNoSpeech {
		speaker, err = speech.OpenSpeaker(log)
		if err != nil {
			log.Error("no speaker, sound disabled: %v", err)
			speaker = nil
		}
	}

	var notifier domain.Notifier = textNotifier
	var mouth *speech.Mouth
	region := cfg.SpeechRegion(secrets)
	switch {
	case runNoSpeech:
	case secrets.SpeechKey == "" || region == "":
		log.Info("TTS disabled: set %s and %s to enable", speech.KeyEnv, speech.RegionEnv)
	case speaker == nil:
		log.Info("TTS disabled: no audio output")
	default:
		tts := speech.NewAzureClient(secrets.SpeechKey, region, log, speech.WithVoice(cfg.Speech.Voice))
		mouth = speech.NewMouth(tts, speaker, tts.Voice(), log)
		mouth.Start(ctx)
		notifier = speech.NewReminders(textNotifier, mouth, log)
		log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), region)
	}

	alerts := alert.NewMulti(log)
	if cfg.Alerts.Chime && speaker != nil {
		alerts.Add("chime", alert.NewChime(speaker))
	}
	if cfg.Alerts.Desktop {
		alerts.Add("desktop", alert.NewDesktop())
	}
	if cfg.Alerts.Haptic {
		alerts.Add("haptic", alert.NewHaptic(os.Stdout, log))
	}
	if cfg.Alerts.Speak && mouth != nil {
		alerts.Add("speech", alert.NewSpeaking(mouth))
	}
	log.Info("%d alert sinks", alerts.Len())

	keywords := conversation.NewKeywordParser(log)
	var parser domain.IntentParser = keywords
	var opts []companion.Option
	if mouth != nil {
		opts = append(opts, companion.WithSpeaker(mouth))
	}

	endpoint := cfg.AssistantEndpoint(secrets)
	switch {
	case runNoAI:
	case secrets.AssistantKey == "" || endpoint == "":
		log.Info("assistant disabled: set %s and %s to enable", config.EnvAssistantKey, config.EnvAssistantEndpoint)
	default:
		client := assistant.NewClient(endpoint, secrets.AssistantKey, log,
			assistant.WithModel(cfg.Assistant.Model),
			assistant.WithHTTPTimeout(cfg.Assistant.TimeoutDuration()),
		)
		baker := assistant.NewBaker(client, log)
		parser = conversation.NewClassifyingParser(keywords, baker, log)
		opts = append(opts, companion.WithAssistant(baker))
		log.Info("assistant enabled")
	}

	if cfg.Weather.Configured() {
		provider := weather.New(log, weather.WithEndpoint(cfg.Weather.Endpoint))
		opts = append(opts, companion.WithWeather(provider, companion.Location{
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
		}))
	}

	var voiceCh <-chan string
	if runVoice || cfg.Voice.Enabled {
		if _, err := os.Stat(cfg.Voice.Model); err != nil {
			return fmt.Errorf("whisper model not found at %s", cfg.Voice.Model)
		}
		os.MkdirAll(".levain-stt", 0o755)
		ear := speech.NewEar(cfg.Voice.WhisperBin, cfg.Voice.Model, mouth, log,
			speech.WithRecordDuration(cfg.Voice.RecordDuration()),
		)
		go ear.Run(ctx)
		voiceCh = ear.C()
		log.Info("voice input enabled (bin=%s, model=%s)", cfg.Voice.WhisperBin, cfg.Voice.Model)
	}

	app := companion.New(b.engine, b.journal, parser, ui, log, opts...)

	driver := timer.New(b.engine, alerts, log,
		timer.WithTickInterval(cfg.Timer.TickInterval()),
		timer.WithAlmostDoneThreshold(cfg.Timer.AlmostDoneThreshold()),
		timer.WithNotifier(notifier),
		timer.WithOnTick(app.OnTick),
	)
	b.engine.Subscribe(driver.Observe)
	driver.Start(ctx)
	defer driver.Stop()

	watcher := timer.NewWatcher(b.engine, notifier, log, timer.WithWatchInterval(cfg.Timer.NudgeInterval()))
	go watcher.Run(ctx)

	fmt.Println(display.RenderBanner())
	if voiceCh != nil {
		fmt.Println(display.BannerStyle.Render("  Voice mode ON: speak a command or type it."))
	}
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.Run(ctx, ui.InputChan(), voiceCh)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	if speaker != nil {
		speaker.Stop()
	}
	return nil
}
