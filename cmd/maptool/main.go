// maptool is a CLI utility for inspecting sector map files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/multierr"

	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/encoding"
	"github.com/Faultbox/sectorview/pkg/formats"
	"github.com/Faultbox/sectorview/pkg/math"
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
	case "sectors":
		cmdSectors(args)
	case "walls":
		cmdWalls(args)
	case "check":
		cmdCheck(args)
	case "locate":
		cmdLocate(args)
	case "prims":
		cmdPrims(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`maptool - sector map utility

Usage:
  maptool <command> [options]

Commands:
  info <file.map>              Show map summary
  sectors <file.map>           List sectors
  walls [-sector N] <file.map> List walls, optionally of one sector
  check <file.map>             Validate the map and report every problem
  locate <file.map> <x> <z>    Find the sector containing a point
  prims <file.map>             List generated wall primitives

Examples:
  maptool info maps/demo.map
  maptool walls -sector 1 maps/demo.map
  maptool locate maps/demo.map 2.5 3`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: maptool "+line)
	os.Exit(1)
}

func openMap(path string) *formats.Map {
	m, err := formats.ParseMapFile(path)
	if err != nil {
		fail(err)
	}
	return m
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		usage("info <file.map>")
	}

	m := openMap(args[0])
	solid, portal := m.CountWalls()

	bom := "no"
	if data, err := os.ReadFile(args[0]); err == nil && encoding.HasBOM(data) {
		bom = "yes"
	}

	fmt.Printf("Map:      %s\n", m.Name)
	fmt.Printf("BOM:      %s\n", bom)
	fmt.Printf("Sectors:  %d\n", len(m.Sectors))
	fmt.Printf("Walls:    %d (%d solid, %d portal)\n", len(m.Walls), solid, portal)
	if lo, hi, ok := m.Bounds(); ok {
		fmt.Printf("Bounds:   x %.2f..%.2f  z %.2f..%.2f\n", lo.X, hi.X, lo.Y, hi.Y)
	}
	floor, ceiling := m.HeightRange()
	fmt.Printf("Heights:  %.2f..%.2f\n", floor, ceiling)
	if n := len(m.DroppedRecords); n > 0 {
		fmt.Printf("Ignored:  %d records before the first section (lines %v)\n", n, m.DroppedRecords)
	}

	textures := make(map[string]int)
	for _, w := range m.Walls {
		if !w.IsPortal() && w.Texture != "" {
			textures[w.Texture]++
		}
	}
	fmt.Printf("Textures: %d\n", len(textures))
}

func cmdSectors(args []string) {
	if len(args) < 1 {
		usage("sectors <file.map>")
	}

	m := openMap(args[0])
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tID\tWALLS\tFLOOR\tCEILING\tROT WALL\tROT ANGLE")
	for i, s := range m.Sectors {
		fmt.Fprintf(tw, "%d\t%d\t%d+%d\t%g\t%g\t%d\t%g\n",
			i, s.ID, s.FirstWall, s.WallCount, s.FloorHeight, s.CeilingHeight, s.RotatingWallID, s.RotatingWallAngle)
	}
	tw.Flush()
}

func cmdWalls(args []string) {
	fs := flag.NewFlagSet("walls", flag.ExitOnError)
	sector := fs.Int("sector", -1, "Only list walls of this sector index")
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage("walls [-sector N] <file.map>")
	}

	m := openMap(fs.Arg(0))
	first, walls := 0, m.Walls
	if *sector >= 0 {
		if *sector >= len(m.Sectors) {
			fail(fmt.Errorf("sector index %d out of range (%d sectors)", *sector, len(m.Sectors)))
		}
		var err error
		if walls, err = m.SectorWalls(*sector); err != nil {
			fail(err)
		}
		first = m.Sectors[*sector].FirstWall
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tID\tSTART\tEND\tLENGTH\tPORTAL\tTEXTURE")
	for i, w := range walls {
		portal := "-"
		if w.IsPortal() {
			portal = strconv.Itoa(w.PortalID)
		}
		fmt.Fprintf(tw, "%d\t%d\t(%g, %g)\t(%g, %g)\t%.3f\t%s\t%s\n",
			first+i, w.ID, w.Start.X, w.Start.Y, w.End.X, w.End.Y, w.Delta().Length(), portal, w.Texture)
	}
	tw.Flush()
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		usage("check <file.map>")
	}

	m := openMap(args[0])
	problems := multierr.Errors(m.Validate())
	for _, p := range problems {
		fmt.Println(p)
	}

	if len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "\n%s: %d problem(s)\n", m.Name, len(problems))
		os.Exit(1)
	}
	fmt.Printf("%s: ok (%d sectors, %d walls)\n", m.Name, len(m.Sectors), len(m.Walls))
}

func cmdLocate(args []string) {
	if len(args) < 3 {
		usage("locate <file.map> <x> <z>")
	}

	x, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		fail(fmt.Errorf("x: %w", err))
	}
	z, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		fail(fmt.Errorf("z: %w", err))
	}

	m := &world.Map{Map: openMap(args[0])}
	p := math.Vec2{X: float32(x), Y: float32(z)}
	i, ok := m.SectorAt(p)
	if !ok {
		fmt.Printf("(%g, %g) is outside every sector\n", p.X, p.Y)
		os.Exit(2)
	}

	s := m.Sectors[i]
	fmt.Printf("(%g, %g) is in sector index %d (id %d), floor %g ceiling %g\n",
		p.X, p.Y, i, s.ID, s.FloorHeight, s.CeilingHeight)
}

func cmdPrims(args []string) {
	if len(args) < 1 {
		usage("prims <file.map>")
	}

	prims, err := world.GenerateWalls(openMap(args[0]))
	if err != nil {
		fail(err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTOR\tWALL\tCENTER\tLENGTH\tHEIGHT\tYAW\tTEXTURE")
	for _, p := range prims {
		fmt.Fprintf(tw, "%d\t%d\t(%.3f, %.3f, %.3f)\t%.3f\t%.3f\t%.2f\t%s\n",
			p.SectorID, p.WallID, p.Center.X, p.Center.Y, p.Center.Z, p.Length, p.Height, p.Yaw, p.Texture)
	}
	tw.Flush()
	fmt.Fprintf(os.Stderr, "\n(%d primitives)\n", len(prims))
}
