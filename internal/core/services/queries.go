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
// sources. This file centralizes all the BigQuery SQL query strings used by
// the application's services. The queries use `fmt.Sprintf` format verbs
// (e.g., %s, %d) as placeholders for dynamic values injected at runtime.
package services

const (
	// QryFindScriptById defines a simple lookup query to retrieve a complete
	// script record from the scripts table using its unique ID.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the scripts table.
	// - `%s`: The unique ID of the script to find.
	QryFindScriptById = "SELECT * from `%s` WHERE id = '%s'"

	// QryListScripts defines the listing query for recent scripts, newest
	// first.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the scripts table.
	// - `%d`: The maximum number of rows to return.
	QryListScripts = "SELECT * from `%s` ORDER BY create_date DESC LIMIT %d"

	// QryCountBySource aggregates script counts by their generation source
	// so operators can watch the fallback rate. A rising fallback share
	// usually means the generative capability is degraded.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the scripts table.
	QryCountBySource = "SELECT source, COUNT(*) as total FROM `%s` GROUP BY source"
)
