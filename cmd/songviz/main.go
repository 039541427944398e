package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/GuinanGuo/fight-song-viz/pkg/vizengine"
)

var cli struct {
	Width      int    `default:"1600" help:"Window width."`
	Height     int    `default:"900" help:"Window height."`
	TPS        int    `default:"60" help:"Ticks per second (engine updates)."`
	Fullscreen bool   `help:"Start fullscreen."`
	Dataset    string `type:"path" help:"Local fight song dataset (JSON). Defaults to the embedded copy."`
	DatasetURL string `help:"Remote dataset URL, fetched through the cache."`
	AudioDir   string `default:"audio" help:"Directory of <track-id>.mp3 recordings. Empty disables playback."`
	CaptureDir string `default:"captures" help:"Directory for P-key frame captures. Empty disables capture."`
	CacheDir   string `default:".songviz-cache" help:"On-disk cache for downloads and graph layouts."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("songviz"),
		kong.Description("Interactive visualization of college fight songs."),
	)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	engine := vizengine.NewEngine(vizengine.Config{
		Width:       cli.Width,
		Height:      cli.Height,
		DatasetPath: cli.Dataset,
		DatasetURL:  cli.DatasetURL,
		AudioDir:    cli.AudioDir,
		CaptureDir:  cli.CaptureDir,
		CacheDir:    cli.CacheDir,
	})
	defer engine.Shutdown()

	ebiten.SetTPS(cli.TPS)
	ebiten.SetWindowSize(cli.Width, cli.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("College Fight Songs")
	if cli.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	if err := ebiten.RunGame(engine); err != nil {
		log.Fatal(err)
	}
}
