// Command assistant is the voice core's single entry point: it loads
// configuration from the environment, wires the duplex audio device,
// wake-word detector, streaming STT/TTS clients, LLM client and LED
// device into the orchestrator, and runs the conversation state machine
// until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/audiodevice"
	"github.com/sprach-assistent/voxd/internal/config"
	"github.com/sprach-assistent/voxd/internal/led"
	"github.com/sprach-assistent/voxd/internal/llm"
	"github.com/sprach-assistent/voxd/internal/orchestrator"
	"github.com/sprach-assistent/voxd/internal/speech"
	"github.com/sprach-assistent/voxd/internal/stt"
	"github.com/sprach-assistent/voxd/internal/tts"
	"github.com/sprach-assistent/voxd/internal/wakeword"
)

func main() {
	cfg := config.Load()
	logger := applog.NewStderr(applog.ParseLevel(cfg.LogLevel))

	device, err := audiodevice.Open(audiodevice.Config{
		MicIndex:      cfg.AudioMicrophoneDevice,
		PlaybackIndex: cfg.AudioPlaybackDevice,
		SampleRate:    cfg.SampleRate,
		Channels:      cfg.Channels,
		FrameSamples:  cfg.FrameSamples,
	}, logger)
	if err != nil {
		log.Fatalf("open audio device: %v", err)
	}
	defer device.Close()

	sttClient := stt.New(config.WebsocketURL(cfg.STTEndpoint), logger)

	detector := buildWakewordDetector(cfg, device, sttClient, logger)

	synth := tts.NewWebsocketSynthesizer(config.WebsocketURL(cfg.TTSEndpoint), cfg.SampleRate)
	queue := tts.NewQueue(synth, device, "./tts_cache", logger)
	queue.SetDebugRecording(cfg.RecordDebugAudio)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := queue.WarmCache(ctx, speech.WarmCorpus()); err != nil {
		logger.Warn("tts warm cache failed", "error", err)
	}

	agent := speech.New(device, detector, sttClient, queue, logger)

	llmClient, err := llm.NewClient(llm.Config{Host: cfg.LLMEndpoint, Model: cfg.LLMProviderModel})
	if err != nil {
		log.Fatalf("create llm client: %v", err)
	}
	promptMgr := llm.NewPromptManager(llm.ModeSelection, llm.NewRemoveOldestStrategy(logger), logger)

	ledDevice := led.NewWizDevice(cfg.LEDHost)

	orch, err := orchestrator.New(agent, llmClient, promptMgr, ledDevice, cfg.Wakeword, cfg.RetryBudget, logger)
	if err != nil {
		log.Fatalf("create orchestrator: %v", err)
	}

	go logEvents(orch, logger)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() { runErr <- orch.Run(ctx) }()

	select {
	case <-sig:
		fmt.Println("\nShutting down...")
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil && err != context.Canceled {
			log.Fatalf("orchestrator stopped: %v", err)
		}
	}
}

// buildWakewordDetector selects a Detector backend per WAKEWORD_PROVIDER,
// folding the documented provider names onto the three backend policies
// spec.md §4.2 describes.
func buildWakewordDetector(cfg *config.Config, device *audiodevice.Device, sttClient *stt.Client, logger applog.Logger) wakeword.Detector {
	switch cfg.WakewordProvider {
	case config.WakewordSpeechRecognition, config.WakewordWhisper:
		return wakeword.NewSpeechRecognizerDetector(device, sttClient, cfg.Wakeword, logger)
	case config.WakewordSTTProviderVA:
		return wakeword.NewVADSTTDetector(device, sttClient, cfg.Wakeword, cfg.WakewordSensitivity(), logger)
	case config.WakewordPicovoice, config.WakewordOpenWakeWord:
		fallthrough
	default:
		return wakeword.NewKeywordSpotterDetector(device, cfg.WakewordSensitivity())
	}
}

func logEvents(orch *orchestrator.Orchestrator, logger applog.Logger) {
	for ev := range orch.Events() {
		switch ev.Type {
		case orchestrator.EventModeChanged:
			logger.Info("mode changed", "mode", ev.Mode)
		case orchestrator.EventClassifying:
			logger.Debug("classifying user input")
		case orchestrator.EventListening:
			logger.Debug("listening", "delta", ev.Data)
		case orchestrator.EventError:
			logger.Error("orchestrator error", "data", ev.Data)
		}
	}
}
