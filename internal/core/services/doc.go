// Package services implements the driving ports: the ingestion pipeline,
// the question-answering pipeline, and corpus management. Services hold
// no state beyond their injected ports; each invocation owns exactly one
// unit-of-work transaction.
package services
