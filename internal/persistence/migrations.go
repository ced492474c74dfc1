package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates the base entity tables and the gold summary
// tables. Statements are idempotent so migration can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS estudiantes (
		id_estudiante                 INTEGER PRIMARY KEY,
		anio_ingreso                  INTEGER NOT NULL,
		tipo_prueba                   VARCHAR(10) NOT NULL,
		nem                           DOUBLE PRECISION,
		ranking                       DOUBLE PRECISION,
		prueba_diagnostico_matematica DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_estudiantes_anio_ingreso ON estudiantes(anio_ingreso)`,

	`CREATE TABLE IF NOT EXISTS semestres (
		id_semestre SERIAL PRIMARY KEY,
		anio        INTEGER NOT NULL,
		numero      INTEGER NOT NULL,
		UNIQUE (anio, numero)
	)`,

	`CREATE TABLE IF NOT EXISTS bimestres (
		id_bimestre SERIAL PRIMARY KEY,
		id_semestre INTEGER NOT NULL REFERENCES semestres(id_semestre),
		numero      INTEGER NOT NULL,
		UNIQUE (id_semestre, numero)
	)`,

	`CREATE TABLE IF NOT EXISTS asignaturas (
		id_asignatura SERIAL PRIMARY KEY,
		codigo        VARCHAR(50) NOT NULL,
		modulo        VARCHAR(50),
		nombre        VARCHAR(255) NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_asignaturas_identity
		ON asignaturas (codigo, COALESCE(modulo, ''), nombre)`,

	`CREATE TABLE IF NOT EXISTS paes (
		id_estudiante    INTEGER NOT NULL REFERENCES estudiantes(id_estudiante),
		anio_examen      INTEGER NOT NULL,
		c_lectora        DOUBLE PRECISION,
		m1               DOUBLE PRECISION,
		m2               DOUBLE PRECISION,
		historia         DOUBLE PRECISION,
		ciencias         DOUBLE PRECISION,
		prom_m1_clectora DOUBLE PRECISION,
		PRIMARY KEY (id_estudiante, anio_examen)
	)`,

	`CREATE TABLE IF NOT EXISTS pdt (
		id_estudiante INTEGER NOT NULL REFERENCES estudiantes(id_estudiante),
		anio_examen   INTEGER NOT NULL,
		lenguaje      DOUBLE PRECISION,
		matematicas   DOUBLE PRECISION,
		historia      DOUBLE PRECISION,
		ciencias      DOUBLE PRECISION,
		prom_leng_mat DOUBLE PRECISION,
		PRIMARY KEY (id_estudiante, anio_examen)
	)`,

	`CREATE TABLE IF NOT EXISTS rendimiento_ramo (
		id_estudiante INTEGER NOT NULL REFERENCES estudiantes(id_estudiante),
		id_bimestre   INTEGER NOT NULL REFERENCES bimestres(id_bimestre),
		id_asignatura INTEGER NOT NULL REFERENCES asignaturas(id_asignatura),
		nota_final    DOUBLE PRECISION,
		estado_final  VARCHAR(50),
		PRIMARY KEY (id_estudiante, id_bimestre, id_asignatura)
	)`,

	`CREATE TABLE IF NOT EXISTS gold_kpi_b1_student (
		cohorte         INTEGER NOT NULL,
		id_estudiante   INTEGER NOT NULL,
		tipo_prueba     VARCHAR(10),
		puntaje_ingreso DOUBLE PRECISION,
		diagnostico     DOUBLE PRECISION,
		nota_b1         DOUBLE PRECISION,
		PRIMARY KEY (cohorte, id_estudiante)
	)`,

	`CREATE TABLE IF NOT EXISTS gold_kpi_student_ramos (
		cohorte       INTEGER NOT NULL,
		id_estudiante INTEGER NOT NULL,
		total_ramos   INTEGER NOT NULL,
		PRIMARY KEY (cohorte, id_estudiante)
	)`,

	`CREATE TABLE IF NOT EXISTS gold_kpi_student_aprueba8 (
		cohorte       INTEGER NOT NULL,
		id_estudiante INTEGER NOT NULL,
		aprueba_8     BOOLEAN NOT NULL,
		PRIMARY KEY (cohorte, id_estudiante)
	)`,
}

// Migrate applies the schema. Safe to call on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
