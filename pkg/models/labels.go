package models

// Display labels for enum values. The pipeline's user-facing text is Japanese,
// so the label tables are too.

var taskTypeLabels = map[TaskType]string{
	TaskTypeProcedure: "手続き",
	TaskTypeHousework: "家事",
	TaskTypeStudy:     "学習",
	TaskTypeWork:      "仕事",
	TaskTypeHealth:    "健康",
	TaskTypeMisc:      "その他",
}

var urgencyLabels = map[Urgency]string{
	UrgencyHigh: "高",
	UrgencyMid:  "中",
	UrgencyLow:  "低",
}

var horizonLabels = map[Horizon]string{
	HorizonSameDay:  "当日",
	HorizonWeekly:   "週次",
	HorizonMonthly:  "月次",
	HorizonLongTerm: "長期",
}

func (t TaskType) Label() string {
	if label, ok := taskTypeLabels[t]; ok {
		return label
	}

	return string(t)
}

func (u Urgency) Label() string {
	if label, ok := urgencyLabels[u]; ok {
		return label
	}

	return string(u)
}

func (h Horizon) Label() string {
	if label, ok := horizonLabels[h]; ok {
		return label
	}

	return string(h)
}
