package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Vamanan/nand2tetris2/internal/logger"
	"github.com/Vamanan/nand2tetris2/internal/translator"
	"github.com/Vamanan/nand2tetris2/pkg/color"

	"github.com/charmbracelet/log"
	"github.com/tebeka/atexit"
)

// Main entry point for the VM translator.
func main() {
	options := translator.Translator{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.NoComments, "s", false, "Strip VM command comments from the output")
	flag.BoolVar(&options.Run, "r", false, "Run the translated program in the emulator")
	flag.IntVar(&options.Steps, "steps", translator.DefaultSteps, "Emulator step limit")
	flag.StringVar(&options.OutputFile, "o", "", "Output file (default: <input>.asm)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file.vm>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	// exit handlers close any file left open by Translate
	atexit.Register(options.Close)

	if len(args) == 0 {
		log.Error("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
		atexit.Exit(2)
	}

	options.SourceFile = args[0]

	if err := options.Translate(); err != nil {
		log.Error("Translation failed", "error", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
