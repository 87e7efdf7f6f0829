// ExoEscape
package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/hhkbp2/go-logging"
	"github.com/spf13/afero"
	"github.com/udawtr/exoescape-go/escape"
)

func main() {
	parser := argparse.NewParser("ExoEscape", "Estimates exobase and Jeans escape of chemistry solver output")

	folder := parser.StringPositional(&argparse.Options{
		Help: "Path to the main folder containing the case folders"})

	mode := parser.Selector("", "mode", []string{"escape", "check"}, &argparse.Options{
		Default: "escape",
		Help:    "escape: Jeans escape of every case (default), check: flag non-converged iterations"})

	caseName := parser.String("c", "case", &argparse.Options{
		Default: "",
		Help:    "Process only this case folder"})

	planets := parser.String("", "planets", &argparse.Options{
		Default: "",
		Help:    "YAML file with additional planets (name, mass [g], radius [cm])"})

	maxExt := parser.Int("", "max_extensions", &argparse.Options{
		Default: escape.DefaultMaxExtensions,
		Help:    "Maximum number of profile extensions"})

	correction := parser.Float("", "correction", &argparse.Options{
		Default: escape.DefaultCorrection,
		Help:    "Empirical correction factor B of the Jeans flux"})

	markBad := parser.Flag("", "mark_bad", &argparse.Options{
		Help: "check mode: rename diverging iterations to Static_Conc_<i>_bad.dat"})

	logLevel := parser.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}, &argparse.Options{
		Default: "INFO",
		Help:    "Log level"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger := logging.GetLogger("exoescape")
	switch *logLevel {
	case "DEBUG":
		logger.SetLevel(logging.LevelDebug)
	case "INFO":
		logger.SetLevel(logging.LevelInfo)
	case "WARN":
		logger.SetLevel(logging.LevelWarn)
	case "ERROR":
		logger.SetLevel(logging.LevelError)
	case "CRITICAL":
		logger.SetLevel(logging.LevelCritical)
	}

	fs := afero.NewOsFs()
	if ok, _ := afero.IsDir(fs, *folder); !ok {
		fmt.Fprintf(os.Stderr, "Error: Folder path '%s' is not a valid directory.\n", *folder)
		os.Exit(1)
	}

	opts := escape.DefaultOptions()
	opts.MaxExtensions = *maxExt
	opts.Correction = *correction
	if *planets != "" {
		opts.Planets, err = escape.LoadPlanetTable(fs, *planets, opts.Planets)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	if *mode == "check" {
		runCheck(escape.NewLoader(fs), *folder, *caseName, *markBad)
		return
	}

	e := escape.New(fs, opts)
	if *caseName != "" {
		res, err := e.Calculate(*folder, *caseName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("%s: lambda_c = %.4e, escape time = %.4e years\n", *caseName, res.Lambda, res.AtmosphereEscape)
		return
	}

	s, err := e.RunBatch(*folder)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger.Infof("Processed %d folders, skipped %d, failed %d", len(s.Entries), len(s.Skipped), len(s.Failed))
}

func runCheck(l *escape.Loader, folder string, caseName string, mark bool) {
	if caseName != "" {
		rep, err := l.CheckConvergence(folder, caseName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if mark && !rep.Converged() {
			if err := l.MarkBad(folder, rep); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
		}
		fmt.Println(escape.FormatReport(rep))
		return
	}

	reps, err := l.CheckAll(folder, mark)
	for _, rep := range reps {
		fmt.Println(escape.FormatReport(rep))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
