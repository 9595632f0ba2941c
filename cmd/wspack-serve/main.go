// SPDX-License-Identifier: MIT

// Command wspack-serve is a demo HTTP server gluing package responder to
// net/http via gin. It owns the socket, the router, and logging; responder
// itself performs no I/O and never logs.
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webstaticpack/webstaticpack/pack"
	"github.com/webstaticpack/webstaticpack/responder"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		addr         string
		packPath     string
		cacheControl string
	)

	cmd := &cobra.Command{
		Use:   "wspack-serve <pack-file>",
		Short: "Serve a webstaticpack archive over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packPath = args[0]

			v := viper.New()
			v.SetEnvPrefix("WSPACK")
			v.AutomaticEnv()
			if v.IsSet("addr") {
				addr = v.GetString("addr")
			}

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			archived, mapped, err := pack.MapFile(packPath)
			if err != nil {
				return fmt.Errorf("load pack %s: %w", packPath, err)
			}
			defer mapped.Close()

			resp := responder.New(archived, responder.Options{CacheControl: cacheControl})

			log.WithFields(logrus.Fields{
				"pack":  packPath,
				"files": archived.EntryCount(),
				"addr":  addr,
			}).Info("serving pack")

			router := newRouter(resp, log)
			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheControl, "cache-control", "", "override the default Cache-Control header value")

	return cmd
}

// newRouter adapts responder.Response to gin's http.ResponseWriter, the
// thin shim spec §9 calls for: copy the borrowed header set and body slice
// into the framework's response, no allocation beyond what gin itself does.
func newRouter(resp *responder.Responder, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.NoRoute(func(c *gin.Context) {
		out := resp.RespondFlatten(responder.Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Header: c.Request.Header,
		})

		for key, values := range out.Header {
			for _, v := range values {
				c.Writer.Header().Add(key, v)
			}
		}
		c.Writer.WriteHeader(out.Status)
		if out.Body != nil {
			if _, err := c.Writer.Write(out.Body); err != nil {
				log.WithError(err).Warn("write response body failed")
			}
		}
	})

	return router
}
