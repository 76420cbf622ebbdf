package list

// StageProgress is the percentage of done tasks in the live checklist.
func (d *Document) StageProgress() int {
	done, total := d.Checklist.Counts()
	return percent(done, total)
}

// LifetimeProgress is the percentage of done tasks across every archived
// stage plus the live one.
func (d *Document) LifetimeProgress() int {
	done, total := d.Checklist.Counts()
	return percent(d.ArchivedDone+done, d.ArchivedCreated+total)
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}
