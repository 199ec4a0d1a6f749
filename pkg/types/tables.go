package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "newsradar_"

const (
	TABLE_CHUNKS   = TableName("chunks")
	TABLE_FEEDBACK = TableName("feedback")
)

const NO_PAGINATION = 0
