package model

// Status 工作地点状态（封闭枚举）
type Status string

const (
	StatusOffice Status = "office"
	StatusRemote Status = "remote"
	StatusAbsent Status = "absent"

	// StatusUndefined 没有对应记录，与显式的 absent 区分显示
	StatusUndefined Status = "undefined"
)

// Statuses 可由用户提交的状态，按显示顺序排列
var Statuses = []Status{StatusOffice, StatusRemote, StatusAbsent}

// StatusMeta 状态的展示元数据
type StatusMeta struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`      // 前端 CSS 类
	FillColor string `json:"fill_color"` // 导出表格的单元格底色
}

var statusMeta = map[Status]StatusMeta{
	StatusOffice: {
		Status: StatusOffice, Label: "Présentiel", Icon: "building-2",
		Color: "bg-green-100 text-green-800 border-green-200", FillColor: "#D1FAE5",
	},
	StatusRemote: {
		Status: StatusRemote, Label: "Télétravail", Icon: "home",
		Color: "bg-blue-100 text-blue-800 border-blue-200", FillColor: "#DBEAFE",
	},
	StatusAbsent: {
		Status: StatusAbsent, Label: "Absence", Icon: "ban",
		Color: "bg-gray-100 text-gray-800 border-gray-200", FillColor: "#F3F4F6",
	},
	StatusUndefined: {
		Status: StatusUndefined, Label: "Non renseigné", Icon: "help-circle",
		Color: "bg-white text-gray-400 border-dashed border-gray-200", FillColor: "#FFFFFF",
	},
}

// Valid 是否为可提交的状态
func (s Status) Valid() bool {
	return s == StatusOffice || s == StatusRemote || s == StatusAbsent
}

// Meta 返回展示元数据；未知状态按 undefined 处理
func (s Status) Meta() StatusMeta {
	if m, ok := statusMeta[s]; ok {
		return m
	}
	return statusMeta[StatusUndefined]
}

// StatusTable 完整元数据表（含 undefined），按显示顺序
func StatusTable() []StatusMeta {
	table := make([]StatusMeta, 0, len(Statuses)+1)
	for _, s := range Statuses {
		table = append(table, s.Meta())
	}
	return append(table, StatusUndefined.Meta())
}
