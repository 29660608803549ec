package model

import "fmt"

// TypeKind is the declaration keyword of a type
type TypeKind string

const (
	TypeClass     TypeKind = "class"
	TypeInterface TypeKind = "interface"
	TypeStruct    TypeKind = "struct"
	TypeRecord    TypeKind = "record"
	TypeEnum      TypeKind = "enum"
)

// Namespace holds the types declared directly in one canonical namespace.
// Reopened declarations of the same name share one Namespace.
type Namespace struct {
	Name  string  `json:"name"`
	Types []*Type `json:"types"`
}

// NewNamespace creates an empty namespace
func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, Types: []*Type{}}
}

func (n *Namespace) String() string {
	return "namespace " + n.Name
}

// Type is a class, interface, struct, record or enum declaration
type Type struct {
	Kind         TypeKind  `json:"kind"`
	Name         string    `json:"name"`
	StartLine    int       `json:"start_line"`
	EndLine      int       `json:"end_line"`
	Methods      []*Method `json:"methods"`
	CommentLines uint      `json:"comment_lines"`
}

// NewType creates a type with no methods
func NewType(kind TypeKind, name string) *Type {
	return &Type{Kind: kind, Name: name, Methods: []*Method{}}
}

func (t *Type) String() string {
	return fmt.Sprintf("%s: %s, CommentLines: %d", t.Kind, t.Name, t.CommentLines)
}

// BaseComplexity is the starting cyclomatic complexity of every method: one
// baseline path plus one for the method's own entry and exit.
const BaseComplexity = 2

// Method holds the counters computed for one method declaration
type Method struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	CyclomaticComplexity uint `json:"cyclomatic_complexity"`
	CommentLines         uint `json:"comment_lines"`
	CodeTokens           uint `json:"code_tokens"`
	Lambdas              uint `json:"lambdas"`
	Parameters           uint `json:"parameters"`

	// ContractComplexity counts tokens seen inside parameter lists,
	// kept apart from CodeTokens.
	ContractComplexity uint `json:"contract_complexity"`
}

// NewMethod creates a method at base complexity
func NewMethod(name string) *Method {
	return &Method{Name: name, CyclomaticComplexity: BaseComplexity}
}

func (m *Method) String() string {
	return fmt.Sprintf("Name: %s, CyclomaticComplexity: %d, CommentLines: %d, CodeTokens: %d, Lambdas: %d, Parameters: %d, ContractComplexity=%d",
		m.Name, m.CyclomaticComplexity, m.CommentLines, m.CodeTokens, m.Lambdas, m.Parameters, m.ContractComplexity)
}

// Diagnostic records an input shape that was unexpected but did not stop the walk
type Diagnostic struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FileMetrics contains the walk result for a single file
type FileMetrics struct {
	Path        string       `json:"path"`
	Hash        string       `json:"hash,omitempty"`
	LineCount   int          `json:"line_count"`
	ParseErrors bool         `json:"parse_errors,omitempty"`
	Namespaces  []*Namespace `json:"namespaces,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// FunctionMetrics is a flattened view of one method for detectors
type FunctionMetrics struct {
	Name      string   `json:"name"`
	FilePath  string   `json:"file_path"`
	Namespace string   `json:"namespace"`
	ClassName string   `json:"class_name"`
	ClassKind TypeKind `json:"class_kind"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`

	CyclomaticComplexity int `json:"cyclomatic_complexity"`
	CommentLines         int `json:"comment_lines"`
	CodeTokens           int `json:"code_tokens"`
	Lambdas              int `json:"lambdas"`
	ParameterCount       int `json:"parameter_count"`
	ContractComplexity   int `json:"contract_complexity"`
}

// QualifiedName returns Namespace.Class.Method, skipping an empty namespace
func (f FunctionMetrics) QualifiedName() string {
	return qualify(f.Namespace, f.ClassName, f.Name)
}

// ClassMetrics is a flattened view of one type for detectors
type ClassMetrics struct {
	Name      string   `json:"name"`
	Kind      TypeKind `json:"kind"`
	FilePath  string   `json:"file_path"`
	Namespace string   `json:"namespace"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`

	MethodCount               int `json:"method_count"`
	CommentLines              int `json:"comment_lines"`
	TotalCyclomaticComplexity int `json:"total_cyclomatic_complexity"`
}

// QualifiedName returns Namespace.Class, skipping an empty namespace
func (c ClassMetrics) QualifiedName() string {
	return qualify(c.Namespace, c.Name)
}

func qualify(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "."
		}
		out += p
	}
	return out
}
