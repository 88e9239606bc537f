package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Price table queries.
const (
	queryGetPriceTable = `
		SELECT payload
		FROM price_tables
		WHERE model_id = $1 AND capacity_id = $2 AND channel = $3`

	queryUpsertPriceTable = `
		INSERT INTO price_tables (model_id, capacity_id, channel, payload, updated_at)
		VALUES (@model_id, @capacity_id, @channel, @payload, now())
		ON CONFLICT (model_id, capacity_id, channel) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()`
)

// Catalog queries.
const (
	queryListCatalogModels = `
		SELECT model_id, capacity_id, model_name, capacity_text
		FROM catalog_models
		ORDER BY model_id, capacity_id`

	queryUpsertCatalogModel = `
		INSERT INTO catalog_models (model_id, capacity_id, model_name, capacity_text)
		VALUES (@model_id, @capacity_id, @model_name, @capacity_text)
		ON CONFLICT (model_id, capacity_id) DO UPDATE SET
			model_name = EXCLUDED.model_name,
			capacity_text = EXCLUDED.capacity_text`
)

// Audit record queries.
const (
	queryGetAuditRecord = `
		SELECT device_id, estado_valoracion, grade, precio_final,
			precio_por_estado, observaciones, editado_por_usuario, updated_at
		FROM audit_records
		WHERE device_id = $1`

	// A user-edited row is only replaced by another user-edited save.
	querySaveAuditRecord = `
		INSERT INTO audit_records (
			device_id, estado_valoracion, grade, precio_final,
			precio_por_estado, observaciones, editado_por_usuario, updated_at
		) VALUES (
			@device_id, @estado_valoracion, @grade, @precio_final,
			@precio_por_estado, @observaciones, @editado_por_usuario, now()
		)
		ON CONFLICT (device_id) DO UPDATE SET
			estado_valoracion = EXCLUDED.estado_valoracion,
			grade = EXCLUDED.grade,
			precio_final = EXCLUDED.precio_final,
			precio_por_estado = EXCLUDED.precio_por_estado,
			observaciones = EXCLUDED.observaciones,
			editado_por_usuario = EXCLUDED.editado_por_usuario,
			updated_at = now()
		WHERE NOT audit_records.editado_por_usuario OR EXCLUDED.editado_por_usuario
		RETURNING updated_at`
)
