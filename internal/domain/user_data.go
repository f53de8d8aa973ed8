package domain

// UserData 聚合快照：整体作为一个持久化单元
type UserData struct {
	Profile       UserProfile   `json:"profile"`
	HealthData    HealthData    `json:"healthData"`
	Appointments  []Appointment `json:"appointments"`
	UserArticles  []Article     `json:"userArticles"`
	SavedArticles []int64       `json:"savedArticles"`
}

// Clone 深拷贝，调用方拿到的快照与内部状态互不影响
func (d UserData) Clone() UserData {
	out := UserData{
		Profile:    d.Profile.Clone(),
		HealthData: d.HealthData.Clone(),
	}
	if d.Appointments != nil {
		out.Appointments = append(make([]Appointment, 0, len(d.Appointments)), d.Appointments...)
	}
	if d.UserArticles != nil {
		out.UserArticles = make([]Article, len(d.UserArticles))
		for i, a := range d.UserArticles {
			out.UserArticles[i] = a.Clone()
		}
	}
	if d.SavedArticles != nil {
		out.SavedArticles = append(make([]int64, 0, len(d.SavedArticles)), d.SavedArticles...)
	}
	return out
}

// MaxID 各集合中最大的 id（用于 id 生成器避让）
func (d UserData) MaxID() int64 {
	var max int64
	for _, g := range d.HealthData.Goals {
		if g.ID > max {
			max = g.ID
		}
	}
	for _, m := range d.HealthData.Medications {
		if m.ID > max {
			max = m.ID
		}
	}
	for _, a := range d.Appointments {
		if a.ID > max {
			max = a.ID
		}
	}
	for _, a := range d.UserArticles {
		if a.ID > max {
			max = a.ID
		}
	}
	return max
}
