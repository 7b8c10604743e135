package llm

import (
	"fmt"
	"strings"
)

const fallbackPrompt = `你是一个专业家居设备识别系统，请严格从以下设备中选择最匹配的一项或多项：
[%s]

精准匹配规则：
1. 温度调节 → 空调/电风扇/暖气/电热毯/浴霸
2. 用水相关 → 热水器/净水器/智能马桶
3. 清洁需求 → 扫地机器人/洗衣机/烘干机/热水器
4. 空气管理 → 空气净化器/加湿器/除湿机/新风系统
5. 安防相关 → 智能门锁/摄像头
6. 厨房电器 → 冰箱/烤箱/微波炉/电饭煲
7. 影音娱乐 → 电视/投影仪
8. 睡眠场景 → 灯光/空调/电热毯

注意：
- 仅返回设备名称，不要标点符号和解释
- 不确定时返回"未知设备"
%s
用户指令：「%s」

历史对话记录：
「%s」`

const sceneHint = `- 当前处于「%s」场景，优先选择该场景相关的设备
`

// FallbackPrompt builds the free-text prompt used when no keyword rule
// matched. history is the rendered dialog history; scene may be empty.
func FallbackPrompt(catalog []string, utterance, history, scene string) string {
	hint := ""
	if scene != "" {
		hint = fmt.Sprintf(sceneHint, scene)
	}
	return fmt.Sprintf(fallbackPrompt, strings.Join(catalog, ", "), hint, utterance, history)
}
