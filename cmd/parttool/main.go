// parttool is a CLI utility for inspecting models before viewing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/qmuntal/gltf"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/camera"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/explode"
	"github.com/Faultbox/partview/internal/labels"
	"github.com/Faultbox/partview/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "parts", "ls":
		cmdParts(args)
	case "trajectories", "traj":
		cmdTrajectories(args)
	case "fit":
		cmdFit(args)
	case "catalog":
		cmdCatalog(args)
	case "sample":
		cmdSample(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`parttool - inspect models for the part viewer

Usage:
  parttool <command> [options]

Commands:
  info <model.glb>                       Show model bounds and part count
  parts [-catalog f] <model.glb>         List parts with display names
  trajectories <model.glb>               Print explode trajectories
  fit [-width px] <model.glb>            Print the fitted camera pose
  catalog [-catalog f]                   List catalog names and descriptions
  sample <out.glb>                       Write the built-in sample engine
  config [-file f] [-save] [-o path]     Print or write the viewer config

Examples:
  parttool info engine.glb
  parttool parts -catalog parts.toml engine.glb
  parttool fit -width 600 engine.glb
  parttool sample engine.glb
  parttool config -save`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// load decodes and normalizes a model the way the viewer does.
func load(path string, geometry bool) *scene.Model {
	md, err := assets.Load(context.Background(), path, assets.Options{Geometry: geometry}).Await(context.Background())
	if err != nil {
		fail(err)
	}
	assets.Normalize(md)
	return md
}

func loadCatalog(path string) *catalog.Catalog {
	if path == "" {
		return catalog.Engine()
	}
	c, err := catalog.Load(path)
	if err != nil {
		fail(err)
	}
	return c
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: parttool info <model.glb>")
		os.Exit(1)
	}

	md := load(args[0], true)
	b := md.Bounds()
	triangles := 0
	for _, p := range md.Parts() {
		if p.Geometry != nil {
			triangles += p.Geometry.TriangleCount()
		}
	}

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Parts:     %d\n", len(md.Parts()))
	fmt.Printf("Triangles: %d\n", triangles)
	fmt.Printf("Bounds:    min %s max %s\n", vec(b.Min.Array()), vec(b.Max.Array()))
	fmt.Printf("Scale:     %.4f\n", md.Root.Local().Scale.X)
}

func cmdParts(args []string) {
	fs := flag.NewFlagSet("parts", flag.ExitOnError)
	catPath := fs.String("catalog", "", "Part catalog (TOML)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: parttool parts [-catalog f] <model.glb>")
		os.Exit(1)
	}

	md := load(fs.Arg(0), false)
	cat := loadCatalog(*catPath)

	fmt.Printf("%-20s %-28s %-8s %s\n", "ID", "NAME", "SIZE", "LABEL")
	for _, p := range md.Parts() {
		size := p.WorldBounds().MaxDim()
		label := "yes"
		if size < labels.MinPartSize {
			label = "no (small)"
		}
		fmt.Printf("%-20s %-28s %-8.3f %s\n", p.ID, cat.NiceName(p), size, label)
	}
}

func cmdTrajectories(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: parttool trajectories <model.glb>")
		os.Exit(1)
	}

	md := load(args[0], false)
	for _, tr := range explode.Prepare(md) {
		fmt.Printf("%s\n  start %s\n  mid   %s\n  final %s\n",
			tr.Part.ID, vec(tr.Start.Array()), vec(tr.Mid.Array()), vec(tr.Final.Array()))
	}
}

func cmdFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	width := fs.Int("width", 1280, "Viewport width in pixels")
	fov := fs.Float64("fov", 55, "Vertical field of view in degrees")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: parttool fit [-width px] <model.glb>")
		os.Exit(1)
	}

	md := load(fs.Arg(0), false)
	pose := camera.FitPose(md.Bounds(), float32(*fov), camera.EnginePreset(), *width)
	fmt.Printf("position %s\n", vec(pose.Position.Array()))
	fmt.Printf("target   %s\n", vec(pose.Target.Array()))
	fmt.Printf("distance %.4f\n", pose.Position.Distance(pose.Target))
}

func cmdCatalog(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	catPath := fs.String("catalog", "", "Part catalog (TOML)")
	fs.Parse(args)

	cat := loadCatalog(*catPath)
	names := cat.Names()
	for _, raw := range names {
		nice := cat.Lookup(raw)
		desc := strings.TrimSpace(cat.Description(nice))
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Printf("  %-12s %-28s %s\n", raw, nice, desc)
	}
	fmt.Printf("\n%d names, default %q\n", len(names), cat.DefaultName())
}

func cmdSample(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: parttool sample <out.glb>")
		os.Exit(1)
	}
	if err := gltf.SaveBinary(assets.SampleEngine(), args[0]); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s\n", args[0])
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	file := fs.String("file", "", "Config file to start from (default: built-in defaults)")
	save := fs.Bool("save", false, "Write to the user config directory")
	out := fs.String("o", "", "Write to this path")
	fs.Parse(args)

	cfg := config.Default()
	if *file != "" {
		var err error
		if cfg, err = config.LoadFile(*file); err != nil {
			fail(err)
		}
	}

	switch {
	case *save:
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote %s\n", config.DefaultPath())
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote %s\n", *out)
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(data)
	}
}

func vec(v [3]float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
