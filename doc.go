/*

Package alumnietl is a small ETL job that pulls alumni survey records
from an Airtable base, anonymizes and aggregates them into four summary
tables, and overwrites the matching tables in a BigQuery dataset.

One invocation is one complete run: extract every record, compute the
aggregates in memory, load each table with full-replace semantics. The
warehouse keeps no history and the job keeps no state between runs;
recurrence belongs to an external scheduler.

Run it as a CLI (cmd/alumni-etl) or deploy RunPipeline as a Cloud
Function triggered by a Cloud Scheduler Pub/Sub topic:

	package myfunc

	import (
		"context"

		alumnietl "github.com/Josh-Pai/alumni-analytics-etl"
	)

	// Entrypoint for Cloud Functions.
	func Run(ctx context.Context, m alumnietl.PubSubMessage) error {
		return alumnietl.RunPipeline(ctx, m)
	}

Configuration comes from the environment (a .env file is honored when
present). SOURCE_BASE_ID, SOURCE_TABLE_NAME, SOURCE_API_KEY,
WAREHOUSE_PROJECT_ID and WAREHOUSE_DATASET_ID are required; a run
refuses to start without all five. ARCHIVE_BUCKET enables a per-run CSV
audit archive in Cloud Storage, and SLACK_TOKEN with SLACK_CHANNEL
enables a run summary posted to Slack.

*/
package alumnietl
