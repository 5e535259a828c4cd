package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youruser/pixelcraft/internal/api"
	"github.com/youruser/pixelcraft/internal/assist"
	"github.com/youruser/pixelcraft/internal/config"
	"github.com/youruser/pixelcraft/internal/editor"
	imagepkg "github.com/youruser/pixelcraft/internal/image"
	"github.com/youruser/pixelcraft/internal/presets"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY is not set, AI assist requests will fail")
	}

	// Load presets at startup (best-effort)
	all, err := presets.LoadFromDataDir(cfg.DataDir)
	if err != nil {
		log.Println("Warning: failed to load presets, using builtin:", err)
		all = presets.Builtin
	}

	fonts, err := imagepkg.NewFontRegistry()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.FontDir != "" {
		n, err := fonts.LoadDir(cfg.FontDir)
		if err != nil {
			log.Println("Warning: failed to load fonts:", err)
		}
		log.Printf("registered %d fonts from %s", n, cfg.FontDir)
	}

	env := &editor.Env{
		Compositor: imagepkg.NewCompositor(fonts),
		Loader:     imagepkg.NewLoader(),
		Assist:     assist.New(cfg.APIKey, assist.Gemini(cfg.ImageModel, cfg.TextModel, nil)),
		AITimeout:  cfg.AITimeout,
		Prerender:  true,
	}

	r := gin.Default()
	api.RegisterRoutes(r, api.NewHandlers(editor.NewRegistry(env), all, cfg.ExportDir))

	log.Println("starting server on http://localhost:" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
