// Command gintendo runs an NES ROM (spec.md §6 "nemu <rom-path>" /
// "nemu <profile> <rom-path>").
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bdwalton/gintendo/console"
	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/hajimehoshi/ebiten/v2"
)

var strict = flag.Bool("strict", false, "treat unmapped bus accesses as faults instead of open bus")

func main() {
	flag.Parse()

	romPath, profile := parseArgs(flag.Args())

	km, ok := console.Profiles[profile]
	if !ok {
		log.Fatalf("gintendo: unknown input profile %q", profile)
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("gintendo: %v", err)
	}

	rom, err := nesrom.New(data)
	if err != nil {
		log.Fatalf("gintendo: invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("gintendo: %v", err)
	}

	c := console.NewConsole(m, *strict, km)
	defer c.Close()

	w, h := c.Resolution()
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("gintendo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	defer cancel()

	if err := ebiten.RunGame(c); err != nil {
		log.Fatalf("gintendo: %v", err)
	}
}

// parseArgs implements the two invocation shapes from spec.md §6: a
// lone positional arg is the ROM path under the "default" profile; two
// positional args name the profile first, ROM path second.
func parseArgs(args []string) (romPath, profile string) {
	switch len(args) {
	case 1:
		return args[0], "default"
	case 2:
		return args[1], args[0]
	default:
		log.Fatalf("usage: gintendo [-strict] [profile] <rom-path>")
		return "", ""
	}
}
