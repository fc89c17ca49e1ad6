package models

import "gorm.io/datatypes"

// Test is an assessment composed of ordered stages (via TestStage).
type Test struct {
	BaseModel
	CompanyID   string `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Stages []TestStage `gorm:"foreignKey:TestID" json:"stages,omitempty"`
}

// Stage groups questions. LegacyTestID/LegacyOrder mirror the pre-join-table
// schema where a stage pointed directly at its test; the startup migration
// converts them into TestStage rows.
type Stage struct {
	BaseModel
	CompanyID   string `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	LegacyTestID *string `gorm:"column:legacy_test_id;type:uuid;index" json:"-"`
	LegacyOrder  int     `gorm:"column:legacy_order;default:0" json:"-"`

	Questions []StageQuestion `gorm:"foreignKey:StageID" json:"questions,omitempty"`
}

type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
	QuestionTypeText         QuestionType = "text"
)

// Question lives in the company question bank; StageQuestion rows place it
// into stages, so the same question can appear in several tests.
type Question struct {
	BaseModel
	CompanyID string         `gorm:"type:uuid;not null;index" json:"company_id"`
	Text      string         `gorm:"not null" json:"text"`
	Type      QuestionType   `gorm:"type:varchar(20);default:'single_choice'" json:"type"`
	Options   datatypes.JSON `json:"options,omitempty"`
	Answer    datatypes.JSON `json:"answer,omitempty"`

	LegacyStageID *string `gorm:"column:legacy_stage_id;type:uuid;index" json:"-"`
	LegacyOrder   int     `gorm:"column:legacy_order;default:0" json:"-"`
}

// TestStage is the ordered Test<->Stage association. SortOrder is dense
// 0..N-1 within a test; duplicates are repaired on read.
type TestStage struct {
	BaseModel
	TestID    string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_test_stage" json:"test_id"`
	StageID   string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_test_stage" json:"stage_id"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`

	Stage *Stage `gorm:"foreignKey:StageID" json:"stage,omitempty"`
}

// StageQuestion is the ordered Stage<->Question association.
type StageQuestion struct {
	BaseModel
	StageID    string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_stage_question" json:"stage_id"`
	QuestionID string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_stage_question" json:"question_id"`
	SortOrder  int    `gorm:"not null;default:0" json:"sort_order"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
