package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/disintegration/imaging"

	imageresizer "github.com/menta2k/image-resizer"
	"github.com/menta2k/image-resizer/internal/config"
	"github.com/menta2k/image-resizer/internal/utils"
	"github.com/menta2k/image-resizer/pkg/crop"
)

func main() {
	var in, outDir, cfgPath, ext string
	var width, height string
	var cropSpec, ratio string
	var quality, workers, minSize int
	var unlock, lossless bool

	flag.StringVar(&in, "in", "", "input image path, URL, or directory (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&cfgPath, "config", "", "config file (.json, .yaml or .yml, default ~/.config/image-resizer/config.json if present)")

	flag.StringVar(&width, "width", "", "target width in px, typed as into the width input")
	flag.StringVar(&height, "height", "", "target height in px, typed as into the height input")
	flag.BoolVar(&unlock, "unlock", false, "unlock the aspect ratio before editing")
	flag.StringVar(&cropSpec, "crop", "", "crop rectangle x,y,w,h in source pixels")
	flag.StringVar(&ratio, "ratio", "", "centered crop preset: square|portrait|landscape|widescreen|instagram|story")

	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp (default from config)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100, default from config)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode")
	flag.IntVar(&workers, "workers", 0, "concurrent images when -in is a directory (default from config)")
	flag.IntVar(&minSize, "minsize", 0, "reject images smaller than this on either side")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL|dir [-width N] [-height N] [-unlock] [-crop x,y,w,h | -ratio square] [-out outdir] [-ext jpg|png|webp]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if cfgPath = config.FindConfigPath(cfgPath); cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	// Flags override the config file
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if ext != "" {
		cfg.Output.Format = ext
	}
	if quality != 0 {
		cfg.Output.Quality = quality
	}
	if lossless {
		cfg.Output.Lossless = true
	}
	if workers != 0 {
		cfg.Batch.Workers = workers
	}
	if minSize != 0 {
		cfg.Loader.MinImageSize = minSize
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal(err)
	}

	opts := imageresizer.Options{
		Width:    width,
		Height:   height,
		Unlock:   unlock,
		Ratio:    ratio,
		Format:   cfg.Output.Format,
		Quality:  cfg.Output.Quality,
		Lossless: cfg.Output.Lossless,
		Prefix:   cfg.Output.Prefix,
		Suffix:   cfg.Output.Suffix,
		MinSize:  cfg.Loader.MinImageSize,
	}
	if cropSpec != "" {
		c, err := crop.Parse(cropSpec)
		if err != nil {
			log.Fatal(err)
		}
		opts.Crop = c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resizer := imageresizer.NewWithConfig(cfg.LoaderSettings(), imaging.Lanczos)

	if !utils.DirExists(in) {
		out, err := resizer.ProcessFile(ctx, in, cfg.Output.Dir, opts)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", out)
		return
	}

	inputs, err := utils.ListImageFiles(in)
	if err != nil {
		log.Fatal(err)
	}
	if len(inputs) == 0 {
		log.Fatalf("no images found in %s", in)
	}
	log.Printf("processing %d images with %d workers", len(inputs), cfg.Batch.Workers)

	outputs, err := resizer.ProcessAll(ctx, inputs, cfg.Output.Dir, opts, cfg.Batch.Workers)
	if err != nil {
		log.Fatal(err)
	}
	for _, out := range outputs {
		log.Printf("wrote %s", out)
	}
}
