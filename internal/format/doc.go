// Package format prints syntax trees back to source text.
//
// Назначение: стабильный вывод дерева для отладки, тестов и команды dump.
// Скобки (фигурные, как в самом языке) ставятся только там, где их требует
// приоритет операторов; печать не опирается на исходные спаны.
// Не делает: сохранения комментариев и исходного форматирования, IO.
// Зависимости: internal/ast.
package format
