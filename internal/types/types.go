// Package types defines the logical data model shared by the Planner, the
// Documenter, and the Indexer: the plan, its work units and table specs,
// the progress and manifest files, and the parsed index documents. None of
// the three stages define their own copies of these shapes; all three
// import this package so a field added here is visible everywhere at once.
package types

import "time"

// ConnectionKind distinguishes the two ways a DatabaseConfig may carry
// credentials.
type ConnectionKind string

const (
	ConnectionKindEnvVar      ConnectionKind = "env_var"
	ConnectionKindCredentials ConnectionKind = "credentials"
)

// EngineCredentials is the structured per-engine credential bundle variant
// of ConnectionRef.
type EngineCredentials struct {
	Host           string `yaml:"host,omitempty" json:"host,omitempty"`
	Port           int    `yaml:"port,omitempty" json:"port,omitempty"`
	Database       string `yaml:"database,omitempty" json:"database,omitempty"`
	User           string `yaml:"user,omitempty" json:"user,omitempty"`
	PasswordEnvVar string `yaml:"password_env_var,omitempty" json:"password_env_var,omitempty"`
	SSLMode        string `yaml:"ssl_mode,omitempty" json:"ssl_mode,omitempty"`
	// LocalPath is used by the dolt engine kind for an embedded/local
	// database directory instead of a network address.
	LocalPath string `yaml:"local_path,omitempty" json:"local_path,omitempty"`
}

// ConnectionRef is a tagged union: either an indirect reference to an
// environment variable holding a full DSN, or a structured credential
// bundle. Exactly one of EnvVar / Credentials is populated.
type ConnectionRef struct {
	Kind        ConnectionKind     `yaml:"-" json:"kind"`
	EnvVar      string             `yaml:"-" json:"env_var,omitempty"`
	Credentials *EngineCredentials `yaml:"-" json:"credentials,omitempty"`
}

// UnmarshalYAML picks the ConnectionRef variant based on which keys are
// present in the YAML node: a bare scalar (or an `env_var:` mapping key) is
// treated as an env-var reference; any engine-credential keys select the
// structured variant.
func (c *ConnectionRef) UnmarshalYAML(unmarshal func(any) error) error {
	var asString string
	if err := unmarshal(&asString); err == nil && asString != "" {
		c.Kind = ConnectionKindEnvVar
		c.EnvVar = asString
		return nil
	}

	var wrapper struct {
		EnvVar string             `yaml:"env_var"`
		Creds  *EngineCredentials `yaml:",inline"`
	}
	if err := unmarshal(&wrapper); err != nil {
		return err
	}
	if wrapper.EnvVar != "" {
		c.Kind = ConnectionKindEnvVar
		c.EnvVar = wrapper.EnvVar
		return nil
	}
	c.Kind = ConnectionKindCredentials
	c.Credentials = wrapper.Creds
	return nil
}

// MarshalYAML emits the variant that is actually populated.
func (c ConnectionRef) MarshalYAML() (any, error) {
	if c.Kind == ConnectionKindEnvVar {
		return map[string]string{"env_var": c.EnvVar}, nil
	}
	return c.Credentials, nil
}

// Timeouts bounds the blocking operations a DatabaseConfig's connector
// performs: connecting, listing tables, and sampling rows.
type Timeouts struct {
	ConnectMillis int `yaml:"connect_ms,omitempty" json:"connect_ms,omitempty"`
	QueryMillis   int `yaml:"query_ms,omitempty" json:"query_ms,omitempty"`
}

// DatabaseConfig is one entry in the input catalog.
type DatabaseConfig struct {
	Name                string        `yaml:"name" json:"name"`
	EngineKind          string        `yaml:"engine_kind" json:"engine_kind"`
	ConnectionRef       ConnectionRef `yaml:"connection_ref" json:"connection_ref"`
	SchemasInclude      []string      `yaml:"schemas_include,omitempty" json:"schemas_include,omitempty"`
	SchemasExclude      []string      `yaml:"schemas_exclude,omitempty" json:"schemas_exclude,omitempty"`
	TablesExclude       []string      `yaml:"tables_exclude,omitempty" json:"tables_exclude,omitempty"`
	IncludeSystemTables bool          `yaml:"include_system_tables,omitempty" json:"include_system_tables,omitempty"`
	Timeouts            Timeouts      `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
}

// Column describes one column of a table.
type Column struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// ForeignKey describes one outgoing foreign key from a table's column.
type ForeignKey struct {
	Column       string `json:"column"`
	TargetSchema string `json:"target_schema"`
	TargetTable  string `json:"target_table"`
	TargetColumn string `json:"target_column"`
}

// TableMetadata is the normalized shape every Catalog Connector returns,
// regardless of engine.
type TableMetadata struct {
	Schema         string       `json:"schema"`
	Table          string       `json:"table"`
	Columns        []Column     `json:"columns"`
	PrimaryKey     []string     `json:"primary_key"`
	ForeignKeys    []ForeignKey `json:"foreign_keys"`
	Indexes        []string     `json:"indexes"`
	RowCountApprox int64        `json:"row_count_approx"`
	Comment        string       `json:"comment,omitempty"`
}

// FullyQualifiedName joins schema and table the way every artifact path and
// document-identity scheme does: "schema.table".
func (t TableMetadata) FullyQualifiedName() string {
	return t.Schema + "." + t.Table
}

// RelationshipKind classifies how a Relationship was discovered.
type RelationshipKind string

const (
	RelationshipForeignKey RelationshipKind = "foreign_key"
	RelationshipDocumented RelationshipKind = "documented"
	RelationshipComputed   RelationshipKind = "computed"
)

// TableRef identifies a single column inside a single table.
type TableRef struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Relationship is one edge in the schema's join graph, either a direct FK,
// a documented (explicitly authored) edge, or a computed multi-hop path.
type Relationship struct {
	Source         TableRef         `json:"source"`
	Target         TableRef         `json:"target"`
	Kind           RelationshipKind `json:"kind"`
	HopCount       int              `json:"hop_count"`
	Confidence     float64          `json:"confidence"`
	JoinExpression string           `json:"join_expression"`
}

// Priority levels for work-unit table ordering (spec.md §4.1 step 4).
type Priority int

const (
	PriorityCore   Priority = 1
	PriorityNormal Priority = 2
	PrioritySystem Priority = 3
)

// TableSpec is the per-table contract the Documenter consumes.
type TableSpec struct {
	FullyQualifiedName string   `json:"fully_qualified_name"`
	Schema             string   `json:"schema"`
	Table              string   `json:"table"`
	Domain             string   `json:"domain"`
	Priority           Priority `json:"priority"`
	ColumnCount        int      `json:"column_count"`
	RowCountApprox     int64    `json:"row_count_approx"`
	IncomingFKCount    int      `json:"incoming_fk_count"`
	OutgoingFKCount    int      `json:"outgoing_fk_count"`
	MetadataHash       string   `json:"metadata_hash"`
	ExistingComment    string   `json:"existing_comment,omitempty"`
}

// WorkUnit is the smallest independently schedulable slice of documentation
// work: all tables of one domain within one database.
type WorkUnit struct {
	ID               string      `json:"id"`
	Database         string      `json:"database"`
	Domain           string      `json:"domain"`
	Tables           []TableSpec `json:"tables"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	OutputDirectory  string      `json:"output_directory"`
	PriorityOrder    int         `json:"priority_order"`
	DependsOn        []string    `json:"depends_on"`
	ContentHash      string      `json:"content_hash"`
}

// DatabaseStatus is the reachability outcome of planning one database.
type DatabaseStatus string

const (
	DatabaseReachable   DatabaseStatus = "reachable"
	DatabaseUnreachable DatabaseStatus = "unreachable"
)

// DatabaseAnalysis summarizes what the Planner discovered (or failed to
// discover) about one configured database.
type DatabaseAnalysis struct {
	Database   string         `json:"database"`
	Status     DatabaseStatus `json:"status"`
	TableCount int            `json:"table_count"`
	Domains    map[string]int `json:"domains"`
	SchemaHash string         `json:"schema_hash,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// PlanComplexity is a coarse sizing signal surfaced to operators.
type PlanComplexity string

const (
	ComplexitySimple   PlanComplexity = "simple"
	ComplexityModerate PlanComplexity = "moderate"
	ComplexityComplex  PlanComplexity = "complex"
)

// PlanSummary holds the counters that must agree with the plan's derived
// quantities (spec.md §8 invariant 1).
type PlanSummary struct {
	TotalDatabases         int `json:"total_databases"`
	ReachableDatabases     int `json:"reachable_databases"`
	TotalTables            int `json:"total_tables"`
	TotalWorkUnits         int `json:"total_work_units"`
	RecommendedParallelism int `json:"recommended_parallelism"`
}

// PlanError is a non-fatal error recorded during planning (e.g. a single
// unreachable database), kept alongside the plan for operator visibility.
type PlanError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Database string `json:"database,omitempty"`
}

// DocumentationPlan is the Planner's sole output artifact.
type DocumentationPlan struct {
	SchemaVersion string             `json:"schema_version"`
	GeneratedAt   time.Time          `json:"generated_at"`
	ConfigHash    string             `json:"config_hash"`
	Complexity    PlanComplexity     `json:"complexity"`
	Databases     []DatabaseAnalysis `json:"databases"`
	WorkUnits     []WorkUnit         `json:"work_units"`
	Summary       PlanSummary        `json:"summary"`
	Errors        []PlanError        `json:"errors"`
}

// PlanSchemaVersion is the only schema_version the Plan Loader accepts.
const PlanSchemaVersion = "1.0"

// WorkUnitStatus is the lifecycle state of a single work unit.
type WorkUnitStatus string

const (
	WorkUnitPending   WorkUnitStatus = "pending"
	WorkUnitRunning   WorkUnitStatus = "running"
	WorkUnitCompleted WorkUnitStatus = "completed"
	WorkUnitPartial   WorkUnitStatus = "partial"
	WorkUnitFailed    WorkUnitStatus = "failed"
)

// WorkUnitProgress tracks the Documenter's progress through one work unit.
type WorkUnitProgress struct {
	ID              string         `json:"id"`
	Status          WorkUnitStatus `json:"status"`
	TablesTotal     int            `json:"tables_total"`
	TablesCompleted int            `json:"tables_completed"`
	TablesFailed    int            `json:"tables_failed"`
	TablesSkipped   int            `json:"tables_skipped"`
	CurrentTable    string         `json:"current_table,omitempty"`
	Errors          []string       `json:"errors,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
}

// OverallStatus is the Documenter run's aggregate status (spec.md §4.2.4).
type OverallStatus string

const (
	OverallCompleted OverallStatus = "completed"
	OverallPartial   OverallStatus = "partial"
	OverallFailed    OverallStatus = "failed"
)

// DocumenterProgress is the Documenter's checkpoint file.
type DocumenterProgress struct {
	Status         OverallStatus                `json:"status"`
	PlanHash       string                       `json:"plan_hash"`
	WorkUnits      map[string]*WorkUnitProgress `json:"work_units"`
	TotalTokens    int64                        `json:"total_tokens"`
	ElapsedMillis  int64                        `json:"elapsed_millis"`
	LastCheckpoint time.Time                    `json:"last_checkpoint"`
}

// IndexableFileType classifies one manifest row for indexer parsing.
type IndexableFileType string

const (
	IndexableTable        IndexableFileType = "table"
	IndexableDomain       IndexableFileType = "domain"
	IndexableOverview     IndexableFileType = "overview"
	IndexableRelationship IndexableFileType = "relationship"
)

// IndexableFile is one row of the Documenter's manifest.
type IndexableFile struct {
	Path        string            `json:"path"`
	Type        IndexableFileType `json:"type"`
	Database    string            `json:"database"`
	Schema      string            `json:"schema,omitempty"`
	Table       string            `json:"table,omitempty"`
	Domain      string            `json:"domain,omitempty"`
	ContentHash string            `json:"content_hash"`
	SizeBytes   int64             `json:"size_bytes"`
	ModifiedAt  time.Time         `json:"modified_at"`
}

// ManifestStatus reflects whether every listed file is present and the
// overall Documenter run completed cleanly.
type ManifestStatus string

const (
	ManifestComplete ManifestStatus = "complete"
	ManifestPartial  ManifestStatus = "partial"
)

// WorkUnitManifestSummary is the per-work-unit rollup stored in the
// manifest (file count and output_hash for that unit's artifacts).
type WorkUnitManifestSummary struct {
	ID         string `json:"id"`
	FileCount  int    `json:"file_count"`
	OutputHash string `json:"output_hash"`
}

// DatabaseManifestSummary is the per-database rollup stored in the
// manifest.
type DatabaseManifestSummary struct {
	Database  string `json:"database"`
	FileCount int    `json:"file_count"`
}

// Manifest is the Documenter's hand-off artifact to the Indexer.
type Manifest struct {
	SchemaVersion  string                    `json:"schema_version"`
	CompletedAt    time.Time                 `json:"completed_at"`
	PlanHash       string                    `json:"plan_hash"`
	Status         ManifestStatus            `json:"status"`
	Databases      []DatabaseManifestSummary `json:"databases"`
	WorkUnits      []WorkUnitManifestSummary `json:"work_units"`
	TotalFiles     int                       `json:"total_files"`
	IndexableFiles []IndexableFile           `json:"indexable_files"`
}

// ManifestSchemaVersion is the only schema_version the Indexer accepts.
const ManifestSchemaVersion = "1.0"

// IndexerPhase is the Indexer's current phase of work (spec.md §4.4.1),
// persisted after every transition so a killed run can report where it
// got to.
type IndexerPhase string

const (
	IndexerPhaseValidating    IndexerPhase = "validating"
	IndexerPhaseParsing       IndexerPhase = "parsing"
	IndexerPhaseEmbedding     IndexerPhase = "embedding"
	IndexerPhaseIndexing      IndexerPhase = "indexing"
	IndexerPhaseRelationships IndexerPhase = "relationships"
	IndexerPhaseOptimizing    IndexerPhase = "optimizing"
	IndexerPhaseDone          IndexerPhase = "done"
)

// IndexerProgress is the Indexer's checkpoint file (indexer-progress.json).
type IndexerProgress struct {
	Status         OverallStatus `json:"status"`
	Phase          IndexerPhase  `json:"phase"`
	ManifestHash   string        `json:"manifest_hash"`
	FilesTotal     int           `json:"files_total"`
	FilesIndexed   int           `json:"files_indexed"`
	FilesSkipped   int           `json:"files_skipped"`
	FilesFailed    int           `json:"files_failed"`
	Warnings       []string      `json:"warnings,omitempty"`
	Errors         []string      `json:"errors,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	LastCheckpoint time.Time     `json:"last_checkpoint"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
}

// DocType classifies one logical index row.
type DocType string

const (
	DocTypeTable        DocType = "table"
	DocTypeColumn       DocType = "column"
	DocTypeDomain       DocType = "domain"
	DocTypeRelationship DocType = "relationship"
	DocTypeOverview     DocType = "overview"
)

// IndexDocument is the logical row the Indexer upserts into the Index
// Store's documents container.
type IndexDocument struct {
	ID               string    `json:"id"`
	DocType          DocType   `json:"doc_type"`
	Database         string    `json:"database"`
	Schema           string    `json:"schema,omitempty"`
	Table            string    `json:"table,omitempty"`
	Column           string    `json:"column,omitempty"`
	Domain           string    `json:"domain,omitempty"`
	Content          string    `json:"content"`
	Summary          string    `json:"summary"`
	Keywords         []string  `json:"keywords"`
	FilePath         string    `json:"file_path"`
	ContentHash      string    `json:"content_hash"`
	SourceModifiedAt time.Time `json:"source_modified_at"`
	ParentDocID      string    `json:"parent_doc_id,omitempty"`
	ParentTablePath  string    `json:"-"` // resolution hint, not persisted
}

// VectorRecord is the 1:1 sibling of an IndexDocument holding its
// embedding, keyed by the document's surrogate id.
type VectorRecord struct {
	DocID     string    `json:"doc_id"`
	Embedding []float32 `json:"embedding"`
}
