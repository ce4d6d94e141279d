package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Level, "level", cfg.Level, "level name in levels/ (basename, .yaml optional)")
	flag.StringVar(&cfg.Prefab, "prefab", cfg.Prefab, "droplet prefab in prefabs/")
	flag.StringVar(&cfg.Contexts, "contexts", cfg.Contexts, "ini file overriding the input contexts")
	flag.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload prefabs and scripts when they change on disk")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug mode")
	flag.BoolVar(&cfg.InfiniteStamina, "infinite-stamina", cfg.InfiniteStamina, "never drain stamina")
	flag.BoolVar(&cfg.NoTimeLimit, "no-time-limit", cfg.NoTimeLimit, "never return to liquid automatically")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("droplet")

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
