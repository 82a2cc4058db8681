// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// *****************************************************************************************************//
// Package main is the entry point for the scene script backend server.
//
// This application sets up and runs a web server using the Gin framework. It provides a REST API
// for generating scene scripts from source text, enhancing their image prompts, retrieving
// previously generated scripts, and uploading transcript files. The server is instrumented with
// OpenTelemetry for logging, tracing, and metrics.
//
// The main function initializes the application's configuration, sets up logging and telemetry,
// and initializes the application state, including clients for Google Cloud services. It defines
// API routes for synchronous script generation, script retrieval, archive downloads, and
// transcript uploads.
//
// The server also sets up and manages a background listener for the transcript Pub/Sub topic,
// which triggers the full ingestion workflow when new transcript files are uploaded to
// Google Cloud Storage.
//
// Functions:
//   - main: The main entry point of the application. It sets up the server, configures routes,
//     initializes services, and handles graceful shutdown.
//   - ScriptRouter: Sets up the API routes related to scene scripts, such as generating a new
//     script, running the enhancement pass, listing and retrieving scripts, and generating
//     signed URLs for archived script documents.
//   - FileUpload: Configures the API endpoint for handling multipart/form-data transcript
//     uploads, saving the uploaded files to the transcript input bucket.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reelworks/go-scene-script/internal/core/model"
	"github.com/reelworks/go-scene-script/internal/telemetry"
)

// main is the primary entry point for the application.
// It orchestrates the setup of logging, telemetry, configuration, cloud services,
// the web server, API routes, and background listeners. It also handles graceful
// shutdown of the server upon receiving an interrupt signal.
func main() {
	// Initialize structured logging for the application.
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	// Root context for the application; cancelling it stops the listeners.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration from TOML files.
	config := GetConfig()

	// Initialize OpenTelemetry for distributed tracing and metrics.
	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	// Initialize the application's state, including all necessary service clients.
	InitState(ctx)
	slog.Info("Initialized State")

	// Set up the Gin web server with default middleware.
	r := gin.Default()

	// Trace incoming requests. This creates a span per request.
	r.Use(otelgin.Middleware("scene-script-server"))

	// Permissive CORS, suitable for development.
	r.Use(cors.Default())

	// Group routes under the "/api/v1" prefix.
	apiV1 := r.Group("/api/v1")
	{
		ScriptRouter(apiV1)
		FileUpload(apiV1)
	}

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	// Start the HTTP server in a separate goroutine so it doesn't block the main thread.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	// Block until an interrupt signal is received.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// Give active requests 5 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// enhanceRequest is the request body for the enhancement endpoint. The effects
// map is keyed by scene index as a JSON object with numeric string keys.
type enhanceRequest struct {
	Script      *model.Script             `json:"script" binding:"required"`
	AspectRatio model.AspectRatio         `json:"aspect_ratio"`
	Effects     map[int]model.ImageEffect `json:"effects"`
}

// ScriptRouter sets up the API routes for scene script actions.
//
// Inputs:
//   - r: A *gin.RouterGroup to which the script routes will be added. This allows
//     nesting routes under a common path prefix (e.g., "/api/v1").
//
// Outputs:
//   - This function does not return any values. It modifies the provided *gin.RouterGroup
//     by adding new route handlers.
//
// This function defines the following endpoints:
//   - POST /scripts: Generates a scene script from the posted request body.
//   - POST /scripts/enhance: Runs the batched image-prompt enhancement pass over a script.
//   - GET /scripts: Lists the most recently generated scripts.
//   - GET /scripts/:id: Retrieves a specific script by its ID.
//   - GET /scripts/:id/archive: Generates a time-limited, signed URL for the archived script document.
//   - GET /stats: Reports script counts grouped by generation source.
func ScriptRouter(r *gin.RouterGroup) {
	scripts := r.Group("/scripts")
	{
		// Handler for POST /scripts
		// Runs the full generation pipeline synchronously. Malformed requests
		// are the only client errors; capability failures degrade to the
		// fallback path inside the service and still yield a usable script.
		scripts.POST("", func(c *gin.Context) {
			request := &model.GenerationRequest{}
			if err := c.ShouldBindJSON(request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			script, err := state.scriptService.GenerateScript(c, request)
			if err != nil {
				var validationErr *model.ValidationError
				if errors.As(err, &validationErr) {
					c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
					return
				}
				log.Printf("Error generating script: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, script)
		})

		// Handler for POST /scripts/enhance
		// The enhancement pass is best-effort. The response always carries the
		// script, with "enhanced" reporting whether the prompts were replaced.
		scripts.POST("/enhance", func(c *gin.Context) {
			request := &enhanceRequest{}
			if err := c.ShouldBindJSON(request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			aspectRatio := request.AspectRatio
			if aspectRatio == "" {
				aspectRatio = model.AspectLandscape
			}

			enhanced := state.scriptService.EnhanceScript(c, request.Script, aspectRatio, request.Effects)
			c.JSON(http.StatusOK, gin.H{"enhanced": enhanced, "script": request.Script})
		})

		// Handler for GET /scripts?count=<n>
		scripts.GET("", func(c *gin.Context) {
			count, err := strconv.Atoi(c.DefaultQuery("count", "20"))
			if err != nil {
				count = 20
			}
			out, err := state.scriptService.List(c, count)
			if err != nil {
				log.Printf("Error listing scripts: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Handler for GET /scripts/:id
		scripts.GET("/:id", func(c *gin.Context) {
			id := c.Param("id")
			out, err := state.scriptService.Get(c, id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Handler for GET /scripts/:id/archive
		// This endpoint provides a secure, time-limited URL for downloading the
		// archived script document from GCS.
		scripts.GET("/:id/archive", func(c *gin.Context) {
			id := c.Param("id")
			script, err := state.scriptService.Get(c, id)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Script not found"})
				return
			}
			if script.ArchiveUrl == "" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Script has no archived document"})
				return
			}

			// Generate a signed URL valid for 15 minutes.
			signedURL, err := state.scriptService.GenerateArchiveURL(c, script.ArchiveUrl, 15*time.Minute)
			if err != nil {
				log.Printf("Error generating signed URL: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate download URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}

	// Handler for GET /stats
	r.GET("/stats", func(c *gin.Context) {
		counts, err := state.scriptService.CountBySource(c)
		if err != nil {
			log.Printf("Error counting scripts by source: %v\n", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, counts)
	})
}

// FileUpload sets up the route for handling transcript uploads.
//
// Inputs:
//   - r: A *gin.RouterGroup to which the file upload route will be added.
//
// Outputs:
//   - This function does not return any values. It registers a POST route on the
//     provided router group.
//
// This function configures a POST endpoint at "/uploads" that accepts multipart/form-data.
// It streams one or more files sent under the "files" form field into the configured
// transcript input bucket. The GCS notification on that bucket then triggers the
// ingestion workflow via Pub/Sub.
func FileUpload(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		// Handler for POST /uploads
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			files := form.File["files"]
			bucket := state.cloud.StorageClient.Bucket(state.config.Storage.TranscriptInputBucket)

			for _, file := range files {
				src, err := file.Open()
				if err != nil {
					c.String(http.StatusBadRequest, "open file err: %s", err.Error())
					return
				}

				// Sniff the leading bytes: transcripts must be plain text, so
				// any recognized binary signature is rejected.
				head := make([]byte, 261)
				n, err := io.ReadFull(src, head)
				if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
					_ = src.Close()
					c.String(http.StatusBadRequest, "read file err: %s", err.Error())
					return
				}
				head = head[:n]
				if kind, _ := filetype.Match(head); kind != types.Unknown {
					_ = src.Close()
					c.String(http.StatusBadRequest, "unsupported file type %s: %s", kind.MIME.Value, file.Filename)
					return
				}

				// Stream the upload straight into the bucket. Transcripts are
				// plain text of modest size so no local staging is needed.
				wc := bucket.Object(file.Filename).NewWriter(c)
				wc.ContentType = "text/plain"
				if _, err = wc.Write(head); err != nil {
					_ = src.Close()
					c.String(http.StatusInternalServerError, "write file to bucket err: %s", err.Error())
					return
				}
				if _, err = io.Copy(wc, src); err != nil {
					_ = src.Close()
					c.String(http.StatusInternalServerError, "write file to bucket err: %s", err.Error())
					return
				}
				if err := src.Close(); err != nil {
					log.Printf("failed to close uploaded file: %v\n", err)
				}
				if err := wc.Close(); err != nil {
					c.String(http.StatusInternalServerError, "close bucket handle err: %s", err.Error())
					return
				}
			}
			c.String(http.StatusOK, "Uploaded successfully %d files.", len(files))
		})
	}
}
