// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic for interacting with data
// sources. This file defines the ScriptService, the single entry point the
// route layer calls: synchronous script generation, the optional enhancement
// pass, script retrieval from BigQuery, and signed download URLs for
// archived script documents in GCS.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/reelworks/go-scene-script/internal/cloud"
	"github.com/reelworks/go-scene-script/internal/core/cor"
	"github.com/reelworks/go-scene-script/internal/core/model"
	"github.com/reelworks/go-scene-script/internal/core/workflow"
)

// SourceCount is one row of the generation-source statistics: how many
// scripts each pipeline path has produced.
type SourceCount struct {
	Source string `bigquery:"source" json:"source"`
	Total  int64  `bigquery:"total" json:"total"`
}

// ScriptService encapsulates the clients, workflows, and configuration
// needed for script operations. It acts as the use-case layer between the
// route handlers and the pipeline.
type ScriptService struct {
	BigqueryClient    *bigquery.Client                    // Client for interacting with Google BigQuery.
	StorageClient     *storage.Client                     // Client for interacting with Google Cloud Storage.
	IAMClient         *credentials.IamCredentialsClient   // Client for IAM, used when signing URLs.
	SignerEmail       string                              // The service account email used to sign URLs.
	DatasetName       string                              // The name of the BigQuery dataset.
	ScriptTable       string                              // The name of the BigQuery table holding scripts.
	Generation        *workflow.ScriptGenerationWorkflow  // The synchronous generation pipeline.
	Enhancement       *workflow.PromptEnhancementWorkflow // The optional enhancement pass.
	CapabilityTimeout time.Duration                       // Bound on the generative capability call; zero disables.
}

// NewScriptService constructs the script service with both pipelines wired
// to the supplied capability.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: A struct containing initialized clients for GCP services.
//   - capability: The generative text capability backing both pipelines.
//
// Outputs:
//   - *ScriptService: The fully initialized service.
func NewScriptService(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	capability cloud.TextCapability) *ScriptService {
	return &ScriptService{
		BigqueryClient:    serviceClients.BigQueryClient,
		StorageClient:     serviceClients.StorageClient,
		IAMClient:         serviceClients.IAMClient,
		SignerEmail:       config.Application.SignerServiceAccountEmail,
		DatasetName:       config.BigQueryDataSource.DatasetName,
		ScriptTable:       config.BigQueryDataSource.ScriptTable,
		Generation:        workflow.NewScriptGenerationWorkflow(config, capability),
		Enhancement:       workflow.NewPromptEnhancementWorkflow(config, capability),
		CapabilityTimeout: time.Duration(config.Generation.CapabilityTimeoutSeconds) * time.Second,
	}
}

// GetFQN (Get Fully Qualified Name) returns the complete, queryable name for
// the scripts table in BigQuery, formatted with dots instead of colons.
//
// Outputs:
//   - string: The fully qualified table name.
func (s *ScriptService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.ScriptTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// GenerateScript runs the full generation pipeline for a request.
//
// Only a *model.ValidationError comes back as an error: once validation has
// passed, capability failures, timeouts, and unparseable responses all
// degrade to the deterministic fallback path inside the workflow, and the
// returned script's Source field records which path produced it.
//
// Inputs:
//   - ctx: The context for the request, used for cancellation and tracing.
//   - request: The generation request; defaults are applied in place.
//
// Outputs:
//   - *model.Script: The finished script.
//   - error: A validation error for malformed input.
func (s *ScriptService) GenerateScript(ctx context.Context, request *model.GenerationRequest) (*model.Script, error) {
	request.ApplyDefaults()
	if err := request.Validate(); err != nil {
		return nil, err
	}

	// Bound the capability call. When the deadline fires mid-call the chain
	// records an error and the workflow degrades to the fallback splitter,
	// which needs no I/O and so is indifferent to the expired context.
	runCtx := ctx
	if s.CapabilityTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.CapabilityTimeout)
		defer cancel()
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(runCtx)
	chainCtx.Add(cor.CtxIn, request)
	s.Generation.Execute(chainCtx)

	script, ok := chainCtx.Get(workflow.ScriptOutputParamName).(*model.Script)
	if !ok {
		return nil, fmt.Errorf("script generation produced no result")
	}
	return script, nil
}

// EnhanceScript runs the batched image-prompt enhancement pass over a
// script's scenes. On success the scene prompts are replaced in place and
// the method returns true; on any failure the script is unchanged and the
// method returns false. Enhancement failure is never an error.
//
// Inputs:
//   - ctx: The context for the request.
//   - script: The script whose scenes will be enhanced.
//   - aspectRatio: The target frame shape.
//   - effects: Optional per-scene camera effects keyed by scene index.
//
// Outputs:
//   - bool: Whether the enhancement was applied.
func (s *ScriptService) EnhanceScript(ctx context.Context, script *model.Script, aspectRatio model.AspectRatio, effects map[int]model.ImageEffect) bool {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	return s.Enhancement.EnhanceScenes(chainCtx, script.Theme, aspectRatio, script.Scenes, effects)
}

// Get retrieves a single script from BigQuery by its unique ID.
//
// Inputs:
//   - ctx: The context for the request.
//   - id: The unique identifier of the script to retrieve.
//
// Outputs:
//   - *model.Script: A pointer to the retrieved script.
//   - error: An error if the query fails or no script is found.
func (s *ScriptService) Get(ctx context.Context, id string) (script *model.Script, err error) {
	queryText := fmt.Sprintf(QryFindScriptById, s.GetFQN(), id)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return script, err
	}
	// ID is unique, so a single row is expected.
	script = &model.Script{}
	err = itr.Next(script)
	return script, err
}

// List retrieves the most recent scripts, newest first.
//
// Inputs:
//   - ctx: The context for the request.
//   - limit: The maximum number of scripts to return.
//
// Outputs:
//   - []*model.Script: The retrieved scripts.
//   - error: An error if the query fails.
func (s *ScriptService) List(ctx context.Context, limit int) ([]*model.Script, error) {
	if limit < 1 {
		limit = 20
	}
	queryText := fmt.Sprintf(QryListScripts, s.GetFQN(), limit)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	scripts := make([]*model.Script, 0, limit)
	for {
		script := &model.Script{}
		err := itr.Next(script)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

// CountBySource aggregates script counts by generation source, exposing the
// AI-versus-fallback ratio to operators.
//
// Inputs:
//   - ctx: The context for the request.
//
// Outputs:
//   - []*SourceCount: One row per source value.
//   - error: An error if the query fails.
func (s *ScriptService) CountBySource(ctx context.Context) ([]*SourceCount, error) {
	queryText := fmt.Sprintf(QryCountBySource, s.GetFQN())
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]*SourceCount, 0, 2)
	for {
		row := &SourceCount{}
		err := itr.Next(row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}
	return counts, nil
}

// GenerateArchiveURL creates a time-limited, secure URL for downloading an
// archived script document. The script's ArchiveUrl field holds a
// `gs://bucket/object` location; the returned URL is a V4-signed HTTPS link
// a browser can fetch without credentials.
//
// Inputs:
//   - ctx: The context for the request.
//   - gcsURI: The gs:// URI of the archived document.
//   - expires: The duration for which the URL will be valid.
//
// Outputs:
//   - string: The generated signed URL.
//   - error: An error if parsing the URI or signing the URL fails.
func (s *ScriptService) GenerateArchiveURL(_ context.Context, gcsURI string, expires time.Duration) (string, error) {
	const prefix = "gs://"
	if !strings.HasPrefix(gcsURI, prefix) {
		return "", fmt.Errorf("invalid GCS URI format: %s", gcsURI)
	}
	path := strings.TrimPrefix(gcsURI, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid GCS URI: unable to determine bucket and object from %s", gcsURI)
	}
	bucketName := parts[0]
	objectName := parts[1]

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(expires),
		GoogleAccessID: s.SignerEmail,
	}

	u, err := s.StorageClient.Bucket(bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucketName, objectName, err)
	}
	return u, nil
}
