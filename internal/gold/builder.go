package gold

import (
	"sort"

	"ficaetl/internal/dataprocessing"
)

// PassThreshold is the minimum grade that counts as passing a period.
const PassThreshold = 4.0

// TargetPeriods is the number of leading chronological periods a student must
// complete and pass for the aprueba_8 indicator.
const TargetPeriods = 8

type studentKey struct {
	cohorte int
	id      int
}

func sortByStudent(keys []studentKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cohorte != keys[j].cohorte {
			return keys[i].cohorte < keys[j].cohorte
		}
		return keys[i].id < keys[j].id
	})
}

// BuildAll derives the three gold tables from the resolved dataset.
func BuildAll(rows []dataprocessing.StudentRow) Tables {
	return Tables{
		B1Students: BuildB1Students(rows),
		Ramos:      BuildStudentRamos(rows),
		Aprueba8:   BuildAprueba8(rows),
	}
}

// Counts returns the row counts of the built tables.
func (t Tables) Counts() Summary {
	return Summary{
		B1Students: len(t.B1Students),
		Ramos:      len(t.Ramos),
		Aprueba8:   len(t.Aprueba8),
	}
}

// BuildB1Students builds gold_kpi_b1_student: one row per (cohorte,
// id_estudiante) with the admission predictors of the student's first seen
// row, left-joined with the mean final grade of semester 1, bimester 1.
func BuildB1Students(rows []dataprocessing.StudentRow) []B1Student {
	type b1Accum struct {
		sum   float64
		count int
	}

	base := make(map[studentKey]*B1Student)
	b1 := make(map[studentKey]*b1Accum)

	for _, row := range rows {
		cohorte, ok := row.Cohort()
		if !ok || row.StudentID == 0 {
			continue
		}
		key := studentKey{cohorte: cohorte, id: row.StudentID}

		if _, seen := base[key]; !seen {
			entry := &B1Student{
				Cohorte:      cohorte,
				IDEstudiante: row.StudentID,
				TipoPrueba:   row.TipoPrueba(),
			}
			if puntaje, ok := row.PuntajeIngreso(); ok {
				entry.PuntajeIngreso = &puntaje
			}
			if diagnostico, ok := row.Diagnostico(); ok {
				entry.Diagnostico = &diagnostico
			}
			base[key] = entry
		}

		semester, semOK := row.Semester()
		bimester, bimOK := row.Bimester()
		grade, gradeOK := row.FinalGrade()
		if semOK && bimOK && gradeOK && semester == 1 && bimester == 1 {
			accum := b1[key]
			if accum == nil {
				accum = &b1Accum{}
				b1[key] = accum
			}
			accum.sum += grade
			accum.count++
		}
	}

	keys := make([]studentKey, 0, len(base))
	for key := range base {
		keys = append(keys, key)
	}
	sortByStudent(keys)

	out := make([]B1Student, 0, len(keys))
	for _, key := range keys {
		entry := *base[key]
		if accum, ok := b1[key]; ok && accum.count > 0 {
			mean := accum.sum / float64(accum.count)
			entry.NotaB1 = &mean
		}
		out = append(out, entry)
	}
	return out
}

type enrollment struct {
	year      int
	semester  int
	bimester  int
	code      string
	module    string
	moduleSet bool
	name      string
}

// BuildStudentRamos builds gold_kpi_student_ramos: the count of distinct
// course enrollments per (cohorte, id_estudiante). A distinct enrollment is
// the full (year, semester, bimester, code, module, name) tuple; rows missing
// any required field are dropped rather than counted as phantom courses.
func BuildStudentRamos(rows []dataprocessing.StudentRow) []StudentRamos {
	counts := make(map[studentKey]int)
	seen := make(map[studentKey]map[enrollment]struct{})

	for _, row := range rows {
		cohorte, cohortOK := row.Cohort()
		year, yearOK := row.Year()
		semester, semOK := row.Semester()
		bimester, bimOK := row.Bimester()
		code, codeOK := row.SubjectCode()
		name, nameOK := row.SubjectName()
		if !cohortOK || row.StudentID == 0 || !yearOK || !semOK || !bimOK || !codeOK || !nameOK {
			continue
		}

		key := studentKey{cohorte: cohorte, id: row.StudentID}
		entry := enrollment{
			year:     year,
			semester: semester,
			bimester: bimester,
			code:     code,
			name:     name,
		}
		if module, ok := row.Module(); ok {
			entry.module = module
			entry.moduleSet = true
		}

		if seen[key] == nil {
			seen[key] = make(map[enrollment]struct{})
		}
		if _, dup := seen[key][entry]; dup {
			continue
		}
		seen[key][entry] = struct{}{}
		counts[key]++
	}

	keys := make([]studentKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sortByStudent(keys)

	out := make([]StudentRamos, 0, len(keys))
	for _, key := range keys {
		out = append(out, StudentRamos{
			Cohorte:      key.cohorte,
			IDEstudiante: key.id,
			TotalRamos:   counts[key],
		})
	}
	return out
}

// PeriodKey encodes a (semester, bimester) pair as semester*10+bimester.
// Injective while both stay single-digit, which holds for this domain.
func PeriodKey(semester, bimester int) int {
	return semester*10 + bimester
}

// BuildAprueba8 builds gold_kpi_student_aprueba8. Per cohort, the target
// periods are the first eight distinct (semester, bimester) pairs in
// chronological order; a student passes the indicator only when they have
// records in every target period and their minimum grade across those
// periods is at least PassThreshold. Cohorts with fewer than eight distinct
// periods mark every student false.
func BuildAprueba8(rows []dataprocessing.StudentRow) []StudentAprueba8 {
	cohortPeriods := make(map[int]map[int]struct{})
	studentRows := make(map[studentKey][]gradedPeriod)

	for _, row := range rows {
		cohorte, cohortOK := row.Cohort()
		semester, semOK := row.Semester()
		bimester, bimOK := row.Bimester()
		grade, gradeOK := row.FinalGrade()
		if !cohortOK || row.StudentID == 0 || !semOK || !bimOK || !gradeOK {
			continue
		}

		period := PeriodKey(semester, bimester)
		if cohortPeriods[cohorte] == nil {
			cohortPeriods[cohorte] = make(map[int]struct{})
		}
		cohortPeriods[cohorte][period] = struct{}{}

		key := studentKey{cohorte: cohorte, id: row.StudentID}
		studentRows[key] = append(studentRows[key], gradedPeriod{period: period, grade: grade})
	}

	// First eight chronological periods per cohort. The period key orders
	// identically to (semester, bimester).
	targets := make(map[int]map[int]struct{}, len(cohortPeriods))
	for cohorte, periods := range cohortPeriods {
		ordered := make([]int, 0, len(periods))
		for period := range periods {
			ordered = append(ordered, period)
		}
		sort.Ints(ordered)
		if len(ordered) > TargetPeriods {
			ordered = ordered[:TargetPeriods]
		}
		target := make(map[int]struct{}, len(ordered))
		for _, period := range ordered {
			target[period] = struct{}{}
		}
		targets[cohorte] = target
	}

	keys := make([]studentKey, 0, len(studentRows))
	for key := range studentRows {
		keys = append(keys, key)
	}
	sortByStudent(keys)

	out := make([]StudentAprueba8, 0, len(keys))
	for _, key := range keys {
		out = append(out, StudentAprueba8{
			Cohorte:      key.cohorte,
			IDEstudiante: key.id,
			Aprueba8:     evaluateAprueba8(studentRows[key], targets[key.cohorte]),
		})
	}
	return out
}

type gradedPeriod struct {
	period int
	grade  float64
}

func evaluateAprueba8(rows []gradedPeriod, target map[int]struct{}) bool {
	if len(target) < TargetPeriods {
		return false
	}

	present := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		present[r.period] = struct{}{}
	}
	for period := range target {
		if _, ok := present[period]; !ok {
			return false
		}
	}

	// Minimum grade across exactly the target periods.
	first := true
	min := 0.0
	for _, r := range rows {
		if _, ok := target[r.period]; !ok {
			continue
		}
		if first || r.grade < min {
			min = r.grade
			first = false
		}
	}
	return !first && min >= PassThreshold
}
