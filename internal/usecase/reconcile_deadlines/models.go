package reconcile_deadlines

// Result итог одного прохода реконсайлера
type Result struct {
	Expired int // Число автоматически отменённых записей
	Warned  int // Число отправленных предупреждений о дедлайне
}
