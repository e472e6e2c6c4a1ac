package source

// forecastLine 领用标准 / 需求基础行
type forecastLine struct {
	Department string
	Location   string
	SKU        string
	Gender     string
	Quantity   int
	Frequency  int
}

// forecastTable 内置需求预测表（部门别名、基地代码与性别标记保持上游原始写法）
var forecastTable = []forecastLine{
	// 徽章
	{"Inflights", "ALL", "Badge - Core Lead", "F", 1, 0},
	{"AOCS", "ALL", "Badge - Girl Power", "F", 1, 12},
	{"Cargo", "ALL", "Badge - Girl Power", "F", 1, 12},
	{"Inflights", "ALL", "Badge - Girl Power", "F", 2, 12},
	{"Inflights", "ALL", "Badge - Lead Crew", "F", 2, 12},
	{"Inflights", "ALL", "Badge - Miss IndiGo", "F", 2, 12},
	{"Inflights", "ALL", "Badge - Second in Command", "F", 1, 12},
	{"Engineering", "ALL", "Badge - Tech Force", "B", 1, 12},
	{"AOCS", "ALL", "Badge - To Be MOM", "F", 1, 0},
	{"Cargo", "ALL", "Badge - To Be MOM", "F", 1, 0},
	{"Inflights", "ALL", "Badge -Check Crew", "F", 1, 0},
	{"Inflights", "ALL", "Badge -Language Proficiency", "F", 1, 12},

	// 客舱
	{"Inflights", "ALL", "Cabin Shoe - Inflight", "F", 1, 12},
	{"Inflights", "ALL", "Cash Pouch", "F", 1, 12},
	{"Inflights", "ALL", "Crew Hat", "F", 1, 12},
	{"Inflights", "ALL", "Crew Lead Folder", "F", 1, 12},
	{"Inflights", "ALL", "Crew Luggage Tag", "F", 1, 12},

	// 安全 / 配件
	{"AOCS", "ALL", "Ear Plug", "B", 1, 12},
	{"Cargo", "ALL", "Ear Plug", "B", 1, 12},
	{"Engineering", "ALL", "Ear Plug", "B", 1, 12},

	// 防寒服
	{"AOCS", "DHM", "Extreme Winter Jackets", "B", 1, 24},
	{"Cargo", "DHM", "Extreme Winter Jackets", "B", 1, 24},
	{"Engineering", "DHM", "Extreme Winter Jackets", "B", 1, 24},

	// 工程制服
	{"Engineering", "ALL", "F Safety Shoe", "F", 1, 12},
	{"Engineering", "ALL", "F Shirt FS - Engg", "F", 2, 12},
	{"Engineering", "ALL", "F Shirt HS - Engg", "F", 2, 12},
	{"Engineering", "IXL", "F Snow Boot", "F", 1, 12},
	{"Engineering", "ALL", "F T shirt - Engg", "F", 2, 12},
	{"Engineering", "ALL", "F Trouser - Engg", "F", 3, 12},

	// 腰带
	{"AOCS", "ALL", "Female Belt", "F", 1, 24},
	{"Cargo", "ALL", "Female Belt", "F", 1, 24},
	{"Inflights", "ALL", "Female Belt", "F", 1, 12},

	// 大衣
	{"AOCS", "BBI", "Female Overcoat", "F", 1, 36},
	{"Cargo", "BBI", "Female Overcoat", "F", 1, 36},
	{"Inflights", "ALL", "Female Overcoat", "F", 1, 36},

	// 孕妇装
	{"AOCS", "ALL", "MATERNITY TUNIC", "F", 2, 0},
	{"Cargo", "ALL", "MATERNITY TUNIC", "F", 2, 0},
	{"Inflights", "ALL", "MATERNITY TUNIC", "F", 2, 0},

	// 围巾
	{"AOCS", "ALL", "Woolen Scarf - AOCS", "F", 1, 24},
	{"Cargo", "ALL", "Woolen Scarf - AOCS", "F", 1, 24},
}
