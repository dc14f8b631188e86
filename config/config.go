// Package config loads the fixed predicate schema and the named-query
// list from YAML files, with built-in defaults covering the privacy
// policy paragraph the knowledge base was built for.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/privalog/kb"
)

// SchemaFile is the YAML shape of a predicate schema definition.
type SchemaFile struct {
	Predicates []PredicateDef `yaml:"predicates"`
}

// PredicateDef declares one predicate signature. Template is a
// human-readable usage hint shown in schema listings.
type PredicateDef struct {
	Name     string `yaml:"name"`
	Arity    int    `yaml:"arity"`
	Template string `yaml:"template,omitempty"`
}

// QueriesFile is the YAML shape of the named-query list.
type QueriesFile struct {
	Queries []QueryDef `yaml:"queries"`
}

// QueryDef maps a natural-language question to a conjunctive goal.
type QueryDef struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Goal     string `yaml:"goal"`
}

// LoadSchemaFile reads and parses a schema YAML file.
func LoadSchemaFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var sf SchemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(sf.Predicates) == 0 {
		return nil, fmt.Errorf("schema %s declares no predicates", path)
	}
	return &sf, nil
}

// LoadQueriesFile reads and parses a named-query YAML file.
func LoadQueriesFile(path string) (*QueriesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	var qf QueriesFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parse queries: %w", err)
	}
	return &qf, nil
}

// Registry materializes the schema into a predicate registry. A
// duplicate name with a conflicting arity halts construction.
func (sf *SchemaFile) Registry() (*kb.Registry, error) {
	reg := kb.NewRegistry()
	for _, p := range sf.Predicates {
		if err := reg.Register(p.Name, p.Arity); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// DefaultSchema returns the predicate signatures extracted for the
// privacy-policy paragraph.
func DefaultSchema() *SchemaFile {
	return &SchemaFile{Predicates: []PredicateDef{
		{Name: "company", Arity: 1, Template: "company(Actor)"},
		{Name: "actor", Arity: 1, Template: "actor(Actor)"},
		{Name: "context", Arity: 1, Template: "context(Context)"},
		{Name: "collects", Arity: 2, Template: "collects(Actor, DataType)"},
		{Name: "collects_content", Arity: 2, Template: "collects_content(Actor, ContentType)"},
		{Name: "collects_tech_data", Arity: 2, Template: "collects_tech_data(Actor, TechDataType)"},
		{Name: "uses_technology", Arity: 2, Template: "uses_technology(Actor, Technology)"},
		{Name: "uses_for", Arity: 2, Template: "uses_for(Actor, Purpose)"},
		{Name: "purpose", Arity: 3, Template: "purpose(Actor, DataType, Purpose)"},
		{Name: "varies_by", Arity: 2, Template: "varies_by(Process, Factor)"},
		{Name: "stores_under_identifier", Arity: 4, Template: "stores_under_identifier(Actor, IdentifierType, Context, Purpose)"},
		{Name: "retains", Arity: 3, Template: "retains(Actor, DataType, RetentionPolicy)"},
		{Name: "allows_setting", Arity: 2, Template: "allows_setting(Actor, SettingAction)"},
		{Name: "may_keep_longer_for", Arity: 3, Template: "may_keep_longer_for(Actor, DataType, Reason)"},
	}}
}

// DefaultFacts returns the base fact list derived from the paragraph,
// in extraction order. Order matters: query results follow it.
func DefaultFacts() []kb.Fact {
	return []kb.Fact{
		kb.NewFact("company", "google"),
		kb.NewFact("actor", "google"),
		kb.NewFact("actor", "user"),
		kb.NewFact("collects", "google", "information"),
		kb.NewFact("context", "google_account"),
		kb.NewFact("collects", "google", "personal_information"),
		kb.NewFact("purpose", "google", "personal_information", "create_or_use_account"),
		kb.NewFact("collects_content", "google", "user_content"),
		kb.NewFact("uses_technology", "google", "cookies"),
		kb.NewFact("uses_technology", "google", "server_logs"),
		kb.NewFact("collects_tech_data", "google", "technical_data"),
		kb.NewFact("collects_tech_data", "google", "ip_address"),
		kb.NewFact("varies_by", "data_collection", "service_usage"),
		kb.NewFact("varies_by", "data_collection", "privacy_controls"),
		kb.NewFact("stores_under_identifier", "google", "unique_identifier", "not_signed_in", "remember_preferences"),
		kb.NewFact("uses_for", "google", "communicate_with_users"),
		kb.NewFact("uses_for", "google", "improve_services"),
		kb.NewFact("uses_for", "google", "maintain_services"),
		kb.NewFact("uses_for", "google", "personalize_content_ads"),
		kb.NewFact("uses_for", "google", "protect_from_fraud_abuse_security_risks"),
		kb.NewFact("uses_for", "google", "provide_services"),
		kb.NewFact("retains", "google", "data", "retention_policy"),
		kb.NewFact("allows_setting", "google", "auto_delete"),
		kb.NewFact("allows_setting", "google", "delete"),
		kb.NewFact("may_keep_longer_for", "google", "data", "business_needs"),
		kb.NewFact("may_keep_longer_for", "google", "data", "legal_needs"),
	}
}

// DefaultQueries returns the eight question-to-goal mappings shipped
// with the knowledge base.
func DefaultQueries() *QueriesFile {
	return &QueriesFile{Queries: []QueryDef{
		{ID: "Q1", Question: "What information does Google collect?",
			Goal: "collects(google, X)"},
		{ID: "Q2", Question: "Why does Google collect data?",
			Goal: "uses_for(google, Purpose)"},
		{ID: "Q3", Question: "Does data collection depend on privacy controls?",
			Goal: "varies_by(data_collection, privacy_controls)"},
		{ID: "Q4", Question: "What is stored under a unique identifier when not signed in?",
			Goal: "stores_under_identifier(google, unique_identifier, not_signed_in, Purpose)"},
		{ID: "Q5", Question: "Is personal information collected when you create a Google Account?",
			Goal: "purpose(google, personal_information, create_or_use_account)"},
		{ID: "Q6", Question: "What content does Google collect?",
			Goal: "collects_content(google, X)"},
		{ID: "Q7", Question: "Which technologies does Google use to collect data?",
			Goal: "uses_technology(google, Tech)"},
		{ID: "Q8", Question: "How long is data retained and can it be deleted?",
			Goal: "retains(google, data, Policy), allows_setting(google, delete)"},
	}}
}
