/*
Package config loads the settings used to bootstrap a repository provider.

Settings come from an optional YAML file and are then overridden by the
environment, which may itself be seeded from .env files:

	log:
	  mode: prod
	backend: dynamodb
	dynamodb:
	  region: eu-west-1
	  table: aggregates
	modules: [ordering]
	indexMaps:
	  Customer:
	    PK: "CUST#{ID}"
	    SK: "CUST#{ID}"

Recognized variables: AGGREGATESTORE_BACKEND, LOG_MODE, AWS_REGION,
AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_DDB_TABLE and AWS_DDB_ENDPOINT.
*/
package config
