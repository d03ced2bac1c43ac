package scoring

import "fmt"

// BuildPrompt renders the fixed grading prompt. The model must reply with a
// bare JSON object carrying grade and reason; stock_name is accepted but
// ignored beyond logging.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(`你是一个专业的金融新闻分析师。请分析以下新闻：

### 新闻内容：
股票代码：%s
标题：%s
内容：%s

### 任务要求：
1. 重点是对股价的潜在影响，如果对股价正面影响巨大，评分10，如果对股价负面影响巨大，评分-10，对股价影响中性，评分为0
2. 提供一句话的评分理由。

### 输出格式：
请严格仅返回 JSON 格式，不要包含 Markdown 代码块（`+"```json"+`），不要有任何前导或后缀文字。

### 示例格式：
{
  "stock_name": "英伟达/NVIDIA",
  "grade": 8.5,
  "reason": "发布了超预期的新一代 AI 芯片，预计将显著提升下一季度营收。"
}`, req.Symbol, req.Title, req.Content)
}
