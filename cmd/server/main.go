package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/xonyis/triman/internal/config"
	"github.com/xonyis/triman/internal/ws"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Triman - multiplayer drinking-dice relay

The server relays room events between clients and holds no game state;
every client reconstructs state from a peer snapshot.

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  PUBLIC_URL      Base URL encoded into room share QR codes
                  (default: http://localhost:PORT)

Examples:
  %s              Start the relay with default settings
  %s --port 3000  Start the relay on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Triman %s\n", version)
		return
	}

	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Relay
	relay := ws.New()
	io := relay.Mount(r)
	defer io.Close()

	// Room introspection: lets a client show how many sockets share its room.
	r.GET("/api/rooms/:room", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"room":    c.Param("room"),
			"members": relay.RoomSize(c.Param("room")),
		})
	})

	// Share link as a scannable QR code.
	r.GET("/api/rooms/:room/qr", func(c *gin.Context) {
		url := cfg.PublicURL + "/?room=" + c.Param("room")
		png, err := qrcode.Encode(url, qrcode.Medium, 320)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
