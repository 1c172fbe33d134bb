// Package api implements the HTTP transport of spec.md §6: nine JSON
// endpoints wrapping the sanitizer, FD algebra, normalization analyzer,
// decomposer, SQL builders, and schema apply orchestrator.
package api

// AttributeDTO is the wire shape of one column in a table/schema payload.
type AttributeDTO struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsPK       bool   `json:"isPK"`
	IsNotNull  bool   `json:"isNotNull"`
	IsUnique   bool   `json:"isUnique"`
}

// TableDTO is one canvas table in a /schema request.
type TableDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Attributes []AttributeDTO `json:"attributes"`
}

// RelationshipDTO is one canvas FK edge, referencing tables by canvas ID.
type RelationshipDTO struct {
	SourceTableID string `json:"sourceTableId"`
	TargetTableID string `json:"targetTableId"`
}

// SchemaApplyRequest is the body of POST /schema.
type SchemaApplyRequest struct {
	Tables        []TableDTO        `json:"tables"`
	Relationships []RelationshipDTO `json:"relationships"`
}

// SchemaApplyResponse is the body returned by POST /schema.
type SchemaApplyResponse struct {
	CreatedTables    []string `json:"created_tables"`
	DroppedTables    []string `json:"dropped_tables"`
	AddedForeignKeys []string `json:"added_foreign_keys"`
	Errors           []string `json:"errors"`
}

// CurrentRelationshipDTO is one FK edge reported by GET /current_schema.
type CurrentRelationshipDTO struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// CurrentSchemaResponse is the body returned by GET /current_schema.
type CurrentSchemaResponse struct {
	Tables        map[string]TableAttributesDTO `json:"tables"`
	Relationships []CurrentRelationshipDTO       `json:"relationships"`
}

// TableAttributesDTO wraps a live table's columns, keyed by table name in
// CurrentSchemaResponse.Tables.
type TableAttributesDTO struct {
	Attributes []AttributeDTO `json:"attributes"`
}

// TablesResponse is the body returned by GET /tables.
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// TableDetailsResponse is the body returned by GET /table_details/<name>.
type TableDetailsResponse struct {
	TableName  string         `json:"table_name"`
	Attributes []AttributeDTO `json:"attributes"`
}

// SelectColumnDTO is one projected column/aggregate in a /execute_select request.
type SelectColumnDTO struct {
	Type   string `json:"type"` // "column" or "aggregate"
	Table  string `json:"table"`
	Column string `json:"column"`
	Func   string `json:"func,omitempty"`
	Alias  string `json:"alias,omitempty"`
}

// JoinDTO is one JOIN clause in a /execute_select request.
type JoinDTO struct {
	Type       string `json:"type"`
	LeftTable  string `json:"leftTable"`
	LeftCol    string `json:"leftCol"`
	RightTable string `json:"rightTable"`
	RightCol   string `json:"rightCol"`
}

// ConditionDTO is one WHERE/HAVING predicate, per spec.md §8 scenario 6's
// {column, op, value, connector} shape.
type ConditionDTO struct {
	Column    string `json:"column"`
	Op        string `json:"op"`
	Value     any    `json:"value,omitempty"`
	Connector string `json:"connector,omitempty"`
	Func      string `json:"func,omitempty"`
}

// OrderTermDTO is one ORDER BY term.
type OrderTermDTO struct {
	Term      string `json:"term"`
	Direction string `json:"direction"`
}

// SelectRequest is the body of POST /execute_select.
type SelectRequest struct {
	Select  []SelectColumnDTO `json:"select"`
	From    []string          `json:"from"`
	Joins   []JoinDTO         `json:"joins"`
	Where   []ConditionDTO    `json:"where"`
	GroupBy []string          `json:"groupBy"`
	Having  []ConditionDTO    `json:"having"`
	OrderBy []OrderTermDTO    `json:"orderBy"`
}

// SelectResponse is the body returned by POST /execute_select.
type SelectResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// DMLRequest is the body of POST /execute_dml.
type DMLRequest struct {
	Operation string         `json:"operation"`
	Table     string         `json:"table"`
	Values    map[string]any `json:"values,omitempty"`
	Set       map[string]any `json:"set,omitempty"`
	Where     []ConditionDTO `json:"where,omitempty"`
}

// DMLResponse is the body returned by POST /execute_dml.
type DMLResponse struct {
	Message       string `json:"message"`
	AffectedRows  int64  `json:"affectedRows"`
}

// FDDTo is one user-supplied functional dependency in wire form.
type FDDTo struct {
	Determinants []string `json:"determinants"`
	Dependents   []string `json:"dependents"`
}

// AnalyzeNormalizationRequest is the body of POST /analyze_normalization.
type AnalyzeNormalizationRequest struct {
	Table string  `json:"table"`
	FDs   []FDDTo `json:"fds"`
}

// ViolationDTO reports one normal-form violation.
type ViolationDTO struct {
	Determinants []string `json:"determinants"`
	Dependents   []string `json:"dependents"`
	Description  string   `json:"description"`
}

// FormResultDTO reports one normal form's compliance status.
type FormResultDTO struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Violations []ViolationDTO `json:"violations"`
}

// AnalyzeNormalizationResponse is the full report of spec.md §4.3.
type AnalyzeNormalizationResponse struct {
	OneNF         FormResultDTO `json:"1nf"`
	TwoNF         FormResultDTO `json:"2nf"`
	ThreeNF       FormResultDTO `json:"3nf"`
	BCNF          FormResultDTO `json:"bcnf"`
	CandidateKeys [][]string    `json:"candidate_keys"`
	Dependencies  []FDDTo       `json:"dependencies"`
}

// DecomposeRequest is the body of POST /decompose/3nf and /decompose/bcnf.
type DecomposeRequest struct {
	TableName      string   `json:"tableName"`
	Attributes     []string `json:"attributes"`
	CandidateKeys  [][]string `json:"candidateKeys"`
	ProcessedFDs   []FDDTo  `json:"processedFds"`
}

// SubSchemaDTO is one sub-schema in a decomposition response.
type SubSchemaDTO struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	PrimaryKey []string `json:"primaryKey"`
}

// DecomposeResponse is the body returned by both decompose endpoints.
type DecomposeResponse struct {
	DecompositionType string         `json:"decomposition_type"`
	OriginalTable     string         `json:"original_table"`
	DecomposedTables  []SubSchemaDTO `json:"decomposed_tables"`
	LostFDs           []FDDTo        `json:"lost_fds"`
}

// SaveSubSchemaDTO is one planned new table in a /save_decomposition request.
type SaveSubSchemaDTO struct {
	NewTableName string   `json:"new_table_name"`
	Attributes   []string `json:"attributes"`
	PrimaryKey   []string `json:"primary_key"`
}

// SaveDecompositionRequest is the body of POST /save_decomposition.
type SaveDecompositionRequest struct {
	OriginalTable    string             `json:"original_table"`
	DecomposedTables []SaveSubSchemaDTO `json:"decomposed_tables"`
}

// SaveDecompositionResponse is the body returned by POST /save_decomposition.
type SaveDecompositionResponse struct {
	Message              string   `json:"message"`
	CreatedTables        []string `json:"created_tables"`
	DataMigratedTo       []string `json:"data_migrated_to"`
	OriginalTableDropped bool     `json:"original_table_dropped"`
}

// errorEnvelope is the uniform error shape of spec.md §6: "Errors are
// always {error: string, ...}".
type errorEnvelope struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}
