package rules

// Default returns the built-in rule tables. Each call returns a fresh copy.
func Default() *Tables {
	return &Tables{
		Keywords: []KeywordRule{
			// temperature
			{"热", []string{"空调", "电风扇"}},
			{"冷", []string{"空调", "暖气", "电热毯"}},
			{"闷", []string{"空调", "新风系统"}},
			{"凉", []string{"空调", "电风扇"}},

			// food and drink
			{"饿", []string{"电饭煲", "微波炉"}},
			{"做饭", []string{"烤箱", "微波炉"}},
			{"烧水", []string{"烧水壶", "热水器"}},
			{"冷藏", []string{"冰箱"}},
			{"渴", []string{"冰箱", "烧水壶"}},
			{"喝", []string{"冰箱", "烧水壶"}},

			// cleaning
			{"扫地", []string{"扫地机器人"}},
			{"脏", []string{"洗衣机", "烘干机"}},
			{"洗衣", []string{"洗衣机", "烘干机"}},
			{"除菌", []string{"空气净化器", "除湿机"}},

			// bathing
			{"洗澡", []string{"热水器", "浴霸"}},
			{"洗漱", []string{"智能马桶", "热水器"}},

			// security
			{"锁门", []string{"智能门锁"}},
			{"监控", []string{"摄像头"}},

			// entertainment
			{"看剧", []string{"电视", "投影仪"}},
			{"听歌", []string{"电视"}},

			// sleep
			{"困", []string{"电热毯", "灯光"}},
			{"睡觉", []string{"电热毯", "灯光"}},
			{"起床", []string{"窗帘", "灯光"}},

			// air
			{"除湿", []string{"除湿机"}},
			{"加湿", []string{"加湿器"}},
			{"通风", []string{"新风系统", "空调"}},

			// composite
			{"回家", []string{"智能门锁", "灯光", "空调"}},
			{"出门", []string{"智能门锁", "灯光", "摄像头"}},

			// pets
			{"喂", []string{"自动喂食器"}},
		},
		Scenes: []SceneRule{
			{
				Name:     "睡觉",
				Keywords: []string{"睡觉", "晚安", "困了", "休息了"},
				Devices:  []string{"灯光", "空调", "电热毯", "窗帘", "加湿器", "夜灯"},
			},
			{
				Name:     "起床",
				Keywords: []string{"起床", "早上好", "醒了"},
				Devices:  []string{"窗帘", "灯光", "烧水壶", "热水器", "咖啡机", "智能马桶"},
			},
			{
				Name:     "出门",
				Keywords: []string{"出门", "上班去", "离家"},
				Devices:  []string{"智能门锁", "灯光", "摄像头", "空调", "窗帘", "扫地机器人"},
			},
			{
				Name:     "回家",
				Keywords: []string{"回家", "到家"},
				Devices:  []string{"智能门锁", "灯光", "空调", "热水器", "窗帘", "暖气"},
			},
			{
				Name:     "观影",
				Keywords: []string{"看剧", "看电影", "追剧"},
				Devices:  []string{"电视", "投影仪", "灯光", "窗帘", "空调", "音响"},
			},
		},
		RegionSeason: map[string]map[string][]string{
			"north": {
				"winter":     {"暖气", "加湿器", "空气净化器"},
				"summer":     {"空调", "电风扇"},
				"all_season": {"新风系统"},
			},
			"south": {
				"winter":     {"电暖器", "除湿机", "电热毯"},
				"summer":     {"空调", "除湿机", "冰箱"},
				"all_season": {"除湿机"},
			},
		},
		SeasonDevices: map[string][]string{
			"spring":     {"空气净化器", "除湿机", "扫地机器人", "烧水壶", "洗衣机", "电风扇"},
			"summer":     {"空调", "电风扇", "冰箱", "除湿机", "净水器", "洗衣机"},
			"autumn":     {"加湿器", "空气净化器", "烘干机", "洗衣机", "烤箱"},
			"winter":     {"暖气", "空调", "电热毯", "浴霸", "智能马桶", "烧水壶", "加湿器", "热水器"},
			"all_season": {"智能门锁", "摄像头", "微波炉", "烤箱", "电饭煲", "电视", "投影仪", "灯光", "插座"},
		},
		TimeDevices: map[string]map[string][]string{
			"weekday": {
				"morning": {"灯光", "智能马桶", "热水器", "烧水壶", "微波炉"},
				"daytime": {"扫地机器人", "空气净化器"},
				"evening": {"电视", "洗衣机", "热水器", "浴霸"},
				"night":   {"空调", "电热毯", "加湿器"},
			},
			"weekend": {
				"morning": {"咖啡机", "烤箱", "投影仪"},
				"daytime": {"洗衣机", "烘干机", "游戏主机"},
				"evening": {"洗碗机", "音响"},
				"night":   {"空调", "夜灯"},
			},
		},
		FamilyFeatures: map[string][]string{
			"has_children": {"智能门锁", "摄像头", "空气净化器"},
			"has_elderly":  {"智能马桶", "浴霸"},
			"has_pet":      {"自动喂食器"},
		},
		Cooking: map[string][]string{
			"rare":     {"微波炉", "烧水壶"},
			"medium":   {"电饭煲", "微波炉"},
			"frequent": {"烤箱", "洗碗机", "净水器"},
		},
		WorkSchedule: map[string][]string{
			"night_shift": {"咖啡机", "夜灯"},
			"flexible":    {"投影仪", "音响"},
		},
		Catalog: []string{
			"空调", "灯光", "窗帘", "电视", "热水器", "加湿器", "除湿机", "扫地机器人", "洗衣机",
			"烘干机", "冰箱", "烤箱", "微波炉", "电饭煲", "净水器", "空气净化器", "新风系统",
			"智能门锁", "摄像头", "插座", "电风扇", "暖气", "浴霸", "智能马桶", "投影仪", "电热毯",
			"烧水壶", "自动喂食器", "咖啡机", "夜灯", "音响", "洗碗机", "游戏主机", "电暖器",
		},
		EndSceneCommands: []string{"结束场景"},
	}
}
