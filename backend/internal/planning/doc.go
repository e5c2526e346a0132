// Package planning 提供排期聚合的纯函数：周区间、全局周视图与管理者汇总。
//
// 本包不访问存储，不读取当前时间，所有输入由调用方显式传入，
// 同样的输入总是得到同样的输出，且不修改传入的切片。
package planning
