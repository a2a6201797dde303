package timetable

// Resolver answers foreign-key lookups across the entity tables of one fetch.
// It is built once and never mutated, so lookups need no locking.
type Resolver struct {
	lessons    map[string]Record
	subjects   map[string]Record
	teachers   map[string]Record
	classrooms map[string]Record
	classes    map[string]Record
}

// NewResolver indexes the entity tables by their string-coerced id.
func NewResolver(index TableIndex) *Resolver {
	return &Resolver{
		lessons:    indexByID(index.Rows(TableLessons)),
		subjects:   indexByID(index.Rows(TableSubjects)),
		teachers:   indexByID(index.Rows(TableTeachers)),
		classrooms: indexByID(index.Rows(TableClassrooms)),
		classes:    indexByID(index.Rows(TableClasses)),
	}
}

func indexByID(rows []Record) map[string]Record {
	out := make(map[string]Record, len(rows))
	for _, row := range rows {
		id, ok := row.ID("id")
		if !ok {
			continue
		}
		out[id] = row
	}
	return out
}

func lookup(m map[string]Record, id string) (Record, bool) {
	rec, ok := m[id]
	return rec, ok
}

// Lesson resolves a lesson id.
func (r *Resolver) Lesson(id string) (Record, bool) { return lookup(r.lessons, id) }

// Subject resolves a subject id.
func (r *Resolver) Subject(id string) (Record, bool) { return lookup(r.subjects, id) }

// Teacher resolves a teacher id.
func (r *Resolver) Teacher(id string) (Record, bool) { return lookup(r.teachers, id) }

// Classroom resolves a classroom id.
func (r *Resolver) Classroom(id string) (Record, bool) { return lookup(r.classrooms, id) }

// Class resolves a class-group id.
func (r *Resolver) Class(id string) (Record, bool) { return lookup(r.classes, id) }

// Counts reports the number of indexed records per entity kind.
func (r *Resolver) Counts() map[string]int {
	return map[string]int{
		TableLessons:    len(r.lessons),
		TableSubjects:   len(r.subjects),
		TableTeachers:   len(r.teachers),
		TableClassrooms: len(r.classrooms),
		TableClasses:    len(r.classes),
	}
}
