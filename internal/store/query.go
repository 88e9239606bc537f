package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByUpdated  = "updated_at"
	orderByPrice    = "precio_final"
	orderByDeviceID = "device_id"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByUpdated:  "updated_at DESC",
	orderByPrice:    "precio_final DESC NULLS LAST",
	orderByDeviceID: "device_id ASC",
}

const defaultOrderBy = "updated_at DESC"

const baseAuditSelect = `SELECT device_id, estado_valoracion, grade, precio_final,
	precio_por_estado, observaciones, editado_por_usuario, updated_at
FROM audit_records`

const countAuditSelect = "SELECT COUNT(*) FROM audit_records"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an audit
// record query. It returns the data query, the count query and the
// positional parameters shared by both.
func (q *AuditQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Grade != nil {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", paramIdx))
		args = append(args, *q.Grade)
		paramIdx++
	}

	if q.LegacyGrade != nil {
		conditions = append(conditions, fmt.Sprintf("estado_valoracion = $%d", paramIdx))
		args = append(args, *q.LegacyGrade)
		paramIdx++
	}

	if q.EditedOnly {
		conditions = append(conditions, "editado_por_usuario")
	}

	if q.MinFinalPrice != nil {
		conditions = append(conditions, fmt.Sprintf("precio_final >= $%d", paramIdx))
		args = append(args, *q.MinFinalPrice)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if col, ok := validOrderBy[q.OrderBy]; ok {
		orderClause = col
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseAuditSelect, whereClause, orderClause, limit, offset,
	)
	countSQL = countAuditSelect + whereClause

	return dataSQL, countSQL, args
}
