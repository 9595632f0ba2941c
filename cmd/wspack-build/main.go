// SPDX-License-Identifier: MIT

// Command wspack-build is the CLI front-end for package builder: it walks a
// directory tree, computes HTTP-relevant metadata once per file, and writes
// a single serialized pack file. It owns filesystem walking, argument
// parsing, and logging; the builder package itself never touches a
// filesystem or a logger.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webstaticpack/webstaticpack/builder"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "wspack-build",
		Short: "Build a webstaticpack archive from a directory tree",
	}

	root.AddCommand(newDirectorySingleCommand())
	return root
}

func newDirectorySingleCommand() *cobra.Command {
	var (
		minCompressSize int
		maxCompressSize int
		gzipLevel       int
		brotliQuality   int
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "directory-single <input-dir> <output-file>",
		Short: "Walk input-dir and write a single pack file to output-file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			v := viper.New()
			v.SetEnvPrefix("WSPACK")
			v.AutomaticEnv()
			if v.IsSet("min_compress_size") {
				minCompressSize = v.GetInt("min_compress_size")
			}

			inputDir, outputFile := args[0], args[1]

			log.WithFields(logrus.Fields{
				"input":  inputDir,
				"output": outputFile,
			}).Info("building pack")

			inputs, err := walkDirectory(inputDir)
			if err != nil {
				return fmt.Errorf("walk %s: %w", inputDir, err)
			}

			opts := builder.BuildOptions{
				MinCompressSize: uint32(minCompressSize),
				MaxCompressSize: uint32(maxCompressSize),
				GzipLevel:       gzipLevel,
				BrotliQuality:   brotliQuality,
				OnFileDone: func(p builder.FileBuildProgress) {
					log.WithFields(logrus.Fields{
						"path":            p.Path,
						"identity_bytes":  p.IdentitySize,
						"gzip_retained":   p.GzipRetained,
						"brotli_retained": p.BrotliRetained,
					}).Debug("packed file")
				},
			}

			out, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputFile, err)
			}
			defer out.Close()

			start := time.Now()
			result, err := builder.BuildAndWrite(out, inputs, opts)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}

			log.WithFields(logrus.Fields{
				"files":        result.FileCount,
				"raw_bytes":    result.RawBytes,
				"gzip_bytes":   result.GzipBytes,
				"brotli_bytes": result.BrotliBytes,
				"elapsed":      time.Since(start),
			}).Info("pack built")

			return nil
		},
	}

	cmd.Flags().IntVar(&minCompressSize, "min-compress-size", builder.DefaultMinCompressSize, "skip compression below this identity size")
	cmd.Flags().IntVar(&maxCompressSize, "max-compress-size", builder.DefaultMaxCompressSize, "skip compression above this identity size")
	cmd.Flags().IntVar(&gzipLevel, "gzip-level", builder.DefaultGzipLevel, "fixed gzip compression level")
	cmd.Flags().IntVar(&brotliQuality, "brotli-quality", builder.DefaultBrotliQuality, "fixed brotli compression quality")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-file build decisions")

	return cmd
}

// walkDirectory reads every regular file under root and returns it as a
// builder.Input with path segments stripped of the root prefix and
// normalized to forward slashes.
func walkDirectory(root string) ([]builder.Input, error) {
	var inputs []builder.Input

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		inputs = append(inputs, builder.Input{
			PathSegments: strings.Split(filepath.ToSlash(rel), "/"),
			Content:      content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inputs, nil
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
