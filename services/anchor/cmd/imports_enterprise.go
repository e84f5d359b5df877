//go:build enterprise
// +build enterprise

package main

import (
	// Community engines
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/clickhouse"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/cockroach"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/databricks"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/mariadb"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/mssql"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/mysql"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/postgres"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/redshift"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/snowflake"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/sqlite"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/synapse"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/tidb"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/timescaledb"

	// Enterprise engines (their driver plugins need vendor client libraries)
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/db2"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/hana"
	_ "github.com/redbco/redb-driverhub/services/anchor/internal/database/oracle"
)
