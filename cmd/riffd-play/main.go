// Command riffd-play loads a project file and plays it through the
// default sound device, headless. Grounded on sointu's
// cmd/sointu-play/main.go flag layout, adapted from "render the whole
// song to a buffer up front" to "stream blocks through the realtime
// engine as it plays", since this engine has no VM synth to render
// offline against — every instrument is an externally hosted plugin.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/riffdaw/engine/control"
	"github.com/riffdaw/engine/engine"
	"github.com/riffdaw/engine/model"
	"github.com/riffdaw/engine/model/persist"
	"github.com/riffdaw/engine/oto"
	"github.com/riffdaw/engine/plugin"
	"github.com/riffdaw/engine/transport"
	"github.com/riffdaw/engine/version"
)

func main() {
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() != 1 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "riffd-play: play a riffdaw project file.\nUsage: %s [flags] <project-file>\n", os.Args[0])
	flag.PrintDefaults()
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening project file: %w", err)
	}
	defer f.Close()
	song, err := persist.Load(f)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	broker := control.NewBroker()
	// No NativeLoader is registered here: loading actual VST2/VST3/CLAP
	// modules is an external collaborator's job, not this engine's. An
	// embedding application supplies real loaders; tracks whose plugins
	// can't be loaded play silent and report a PluginLoad notification,
	// same as any other failed Create.
	host := plugin.NewHost(map[model.PluginFormat]plugin.NativeLoader{})
	eng := engine.New(broker, host, song.SampleRate, song.BlockSize, song.TimeSigNum, song.BPM)

	go logNotifications(broker)

	worker := engine.NewWorker(eng)
	closed := make(chan struct{})
	go worker.Run(closed)
	defer close(closed)

	broker.SendCommand(control.LoadProject{Song: song})
	broker.SendCommand(control.TransportPlay{Mode: transport.SongArrangement})

	sink, err := oto.NewSink(eng, song.SampleRate, song.BlockSize)
	if err != nil {
		return fmt.Errorf("opening audio output: %w", err)
	}
	defer sink.Close()
	sink.Play()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	<-sigc
	return nil
}

func logNotifications(broker *control.Broker) {
	for n := range broker.ToUI {
		if e, ok := n.(control.Error); ok {
			attrs := []any{slog.String("kind", e.Kind.String()), slog.Any("err", e.Err)}
			if e.TrackID != nil {
				attrs = append(attrs, slog.String("track", e.TrackID.String()))
			}
			slog.Error("engine notification", attrs...)
		}
	}
}
