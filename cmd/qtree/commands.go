package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/quadtree"
	"github.com/outofforest/quadtree/packed"
	"github.com/outofforest/quadtree/persistent"
	"github.com/outofforest/quadtree/textio"
)

const usage = `Usage:
  qtree compress [flags] <raw-file> <compressed-file>
  qtree uncompress [flags] <compressed-file> <raw-file>
  qtree view [flags] <compressed-file>

Flags:
`

// ErrUsage is returned when command line is invalid.
var ErrUsage = errors.New("invalid usage")

// Config stores command configuration.
type Config struct {
	Packed        bool
	ParallelDepth uint64
	Lenient       bool
	DryRun        bool
}

// OpenStoreFunc opens the store output file is written to. Returned function releases the store.
type OpenStoreFunc func(path string) (persistent.Store, func(), error)

// OpenFileStore opens the store writing to the file.
func OpenFileStore(path string) (persistent.Store, func(), error) {
	s, closeFunc, err := persistent.NewFileStore(path)
	if err != nil {
		return nil, nil, err
	}
	return s, closeFunc, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, openStore OpenStoreFunc) error {
	var config Config

	flags := pflag.NewFlagSet("qtree", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	// Logger flags are parsed by main.
	logger.AddFlags(logger.DefaultConfig, flags)
	flags.BoolVar(&config.Packed, "packed", false, "use binary container instead of text linear form")
	flags.Uint64Var(&config.ParallelDepth, "parallel-depth", 0,
		"number of tree levels after which regions are compressed concurrently, 0 disables concurrency")
	flags.BoolVar(&config.Lenient, "lenient", false, "ignore data following the complete tree")
	flags.BoolVar(&config.DryRun, "dry-run", false, "do not write output file")
	flags.Usage = func() {
		_, _ = fmt.Fprint(stdout, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return errors.WithStack(err)
	}

	args = flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return errors.Wrap(ErrUsage, "command is missing")
	}

	cmd, args := args[0], args[1:]
	switch {
	case cmd == "compress" && len(args) == 2:
		return compress(ctx, config, args[0], args[1], stdout, openStore)
	case cmd == "uncompress" && len(args) == 2:
		return uncompress(ctx, config, args[0], args[1], stdout, openStore)
	case cmd == "view" && len(args) == 1:
		return view(ctx, config, args[0], stdout)
	default:
		flags.Usage()
		return errors.Wrapf(ErrUsage, "unknown command or wrong number of arguments: %q", cmd)
	}
}

func compress(
	ctx context.Context,
	config Config,
	inPath, outPath string,
	stdout io.Writer,
	openStore OpenStoreFunc,
) error {
	log := logger.Get(ctx)

	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	values, err := textio.ReadRaw(in)
	if err != nil {
		return errors.Wrapf(err, "reading raw image %q failed", inPath)
	}

	log.Info("Compressing", zap.String("input", inPath), zap.Int("pixels", len(values)))

	var tr *quadtree.Tree
	if config.ParallelDepth > 0 {
		tr, err = quadtree.CompressParallel(ctx, values, config.ParallelDepth)
	} else {
		tr, err = quadtree.Compress(values)
	}
	if err != nil {
		return err
	}

	data, err := marshal(config, tr)
	if err != nil {
		return err
	}
	if err := store(config, openStore, outPath, data); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Raw image size: %d\n", tr.RawSize())
	_, _ = fmt.Fprintf(stdout, "Compressed image size: %d\n", tr.CompressedSize())
	_, _ = fmt.Fprintf(stdout, "Compression %%: %.2f\n",
		100*(1-float64(tr.CompressedSize())/float64(tr.RawSize())))
	if config.Packed {
		_, _ = fmt.Fprintf(stdout, "Packed size: %d bytes\n", len(data))
	}

	return nil
}

func uncompress(
	ctx context.Context,
	config Config,
	inPath, outPath string,
	stdout io.Writer,
	openStore OpenStoreFunc,
) error {
	tr, err := load(ctx, config, inPath)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := textio.WriteRaw(buf, tr.Raster()); err != nil {
		return err
	}
	if err := store(config, openStore, outPath, buf.Bytes()); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Uncompressed image: %dx%d\n", tr.Dim(), tr.Dim())
	return nil
}

func view(ctx context.Context, config Config, inPath string, stdout io.Writer) error {
	tr, err := load(ctx, config, inPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Dimension: %dx%d\n", tr.Dim(), tr.Dim())
	_, _ = fmt.Fprintf(stdout, "Raw image size: %d\n", tr.RawSize())
	_, _ = fmt.Fprintf(stdout, "Compressed image size: %d\n", tr.CompressedSize())
	_, _ = fmt.Fprintf(stdout, "Fingerprint: %016x\n", tr.Fingerprint())
	_, _ = fmt.Fprintln(stdout, tr)
	return nil
}

func load(ctx context.Context, config Config, path string) (*quadtree.Tree, error) {
	log := logger.Get(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var count int
	var values []int
	if config.Packed {
		count, values, err = packed.Unmarshal(data)
	} else {
		count, values, err = textio.ReadLinear(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading compressed image %q failed", path)
	}

	log.Info("Decoding", zap.String("input", path), zap.Int("values", len(values)))

	if !config.Lenient {
		return quadtree.Decode(count, values)
	}

	tr, consumed, err := quadtree.DecodeBlock(count, values)
	if err != nil {
		return nil, err
	}
	if consumed != len(values) {
		log.Warn("Ignoring trailing data", zap.Int("consumed", consumed), zap.Int("values", len(values)))
	}
	return tr, nil
}

func marshal(config Config, tr *quadtree.Tree) ([]byte, error) {
	if config.Packed {
		return packed.Marshal(tr.Linear())
	}

	buf := &bytes.Buffer{}
	if err := tr.WriteLinear(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func store(config Config, openStore OpenStoreFunc, path string, data []byte) error {
	var s persistent.Store
	if config.DryRun {
		s = persistent.NewDummyStore()
	} else {
		var closeFunc func()
		var err error
		s, closeFunc, err = openStore(path)
		if err != nil {
			return err
		}
		defer closeFunc()
	}

	if err := s.Write(data); err != nil {
		return err
	}
	return s.Sync()
}
