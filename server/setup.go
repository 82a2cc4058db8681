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

// Package main contains the setup and initialization logic for the application's state.
// This file is responsible for creating and managing a centralized state manager
// that holds all shared dependencies: the configuration, the Google Cloud service
// clients, the generative text capability, and the script service used by the
// HTTP routes and the Pub/Sub listeners.
//
// Functions:
//   - SetupOS: Configures the environment variables the configuration loader
//     uses to find the correct TOML files.
//   - GetConfig: A singleton function that loads the application's configuration
//     from TOML files. It ensures the configuration is loaded only once.
//   - InitState: The core initialization function that creates all service
//     clients, builds the generative text capability, wires the ScriptService,
//     and starts the Pub/Sub listeners.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/services"
)

// StateManager holds all the shared dependencies for the application, acting as
// a centralized container for service clients and configuration. This avoids
// scattering globals through the route handlers.
type StateManager struct {
	config         *cloud.Config
	cloud          *cloud.ServiceClients
	textCapability cloud.TextCapability
	scriptService  *services.ScriptService
}

// state is a package-level variable that holds the single instance of StateManager.
var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader uses to find
// the correct TOML files. A local .env file, if present, is applied first so a
// developer can point the loader at a different directory or runtime without
// editing code. Values already present in the environment are kept.
//
// Outputs:
//   - error: An error if setting any of the environment variables fails.
func SetupOS() (err error) {
	// Apply a local .env file when one exists. Missing files are fine.
	_ = godotenv.Load()

	// Set the directory where configuration files are located.
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
		if err != nil {
			return err
		}
	}
	// Set the current runtime environment to "local". The config loader will
	// look for a ".env.local.toml" file to override base settings.
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides a singleton instance of the application configuration.
// On the first call it sets up the OS environment and loads the configuration
// from the TOML files. Subsequent calls return the cached configuration.
//
// Outputs:
//   - *cloud.Config: A pointer to the loaded application configuration struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState initializes the entire application state.
//
// Inputs:
//   - ctx: The root context.Context for the application, used for managing
//     the lifecycle of client connections and background processes.
//
// This function performs the following steps:
//  1. Loads the application configuration.
//  2. Initializes all Google Cloud service clients (Storage, Pub/Sub, GenAI,
//     BigQuery, IAM).
//  3. Builds the generative text capability from the configured agent model.
//  4. Instantiates the ScriptService with the generation and enhancement
//     pipelines wired to that capability.
//  5. Sets up and starts the Pub/Sub listeners that drive transcript ingestion.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	// The script pipelines share a single rate-limited model.
	scriptModel, ok := cloudClients.AgentModels[config.Generation.AgentModel]
	if !ok {
		log.Fatalf("agent model %q is not configured", config.Generation.AgentModel)
	}
	capability, err := cloud.NewGenerativeTextCapability(scriptModel)
	if err != nil {
		log.Fatalf("failed to create generative text capability: %v", err)
	}
	state.textCapability = capability

	state.scriptService = services.NewScriptService(config, cloudClients, state.textCapability)

	// Configure and start the Pub/Sub listeners that react to GCS bucket events.
	SetupListeners(config, cloudClients, state.textCapability, ctx)
}
