package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	C "guha/config"
	"guha/dataset"
	"guha/datasource"
	"guha/miner"
)

type output struct {
	Result         *miner.RunResult `json:"result"`
	DroppedColumns []droppedColumn  `json:"dropped_columns,omitempty"`
}

type droppedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

func main() {
	env := flag.String("env", "", "Overrides GUHA_ENV.")
	taskFile := flag.String("task", "", "YAML task file.")
	dataFile := flag.String("data", "", "CSV, TSV or XLSX data file; the first row names the attributes.")
	sheet := flag.String("sheet", "", "Workbook sheet to read. Defaults to the first one.")
	outFile := flag.String("out", "", "Output JSON file. Defaults to stdout.")
	flag.Parse()

	if *taskFile == "" || *dataFile == "" {
		fmt.Fprintln(os.Stderr, "usage: run_guha_miner --task task.yaml --data data.csv [--sheet name] [--out rules.json]")
		os.Exit(2)
	}

	if err := C.Init(*env); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}
	conf := C.GetConfig()

	tf, err := C.LoadTaskFile(*taskFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load task.")
	}
	task, err := tf.Task()
	if err != nil {
		log.WithError(err).Fatal("Invalid task.")
	}
	opts, err := tf.MergeOptions(conf.Options())
	if err != nil {
		log.WithError(err).Fatal("Invalid task options.")
	}

	table, err := datasource.Load(*dataFile, *sheet)
	if err != nil {
		log.WithFields(log.Fields{"file": *dataFile}).WithError(err).Fatal("Failed to load data.")
	}
	ds, warnings, err := table.Encode(conf.MaxCategories)
	if err != nil {
		log.WithError(err).Fatal("Failed to encode data.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := miner.Run(ctx, ds, task, opts)
	if err != nil {
		log.WithError(err).Fatal("Mining failed.")
	}

	if err := write(*outFile, output{Result: result, DroppedColumns: dropped(warnings)}); err != nil {
		log.WithError(err).Fatal("Failed to write rules.")
	}
}

func dropped(warnings []*dataset.EncodingError) []droppedColumn {
	out := make([]droppedColumn, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, droppedColumn{Column: w.Column, Reason: w.Reason})
	}
	return out
}

func write(path string, out output) error {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	}
	return ioutil.WriteFile(path, raw, 0644)
}
