// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tilt

// lookup 是 unrestricted policy 在小目標重量下的預解值：lookup[m] 即
// ExpectedWeight(x) = m 的解，5 位有效數字。index 0 未使用。
//
// 這是純資料，不是邏輯；精度只能收緊、不能放鬆（重算請用
// solveBisection 並保留至少 5 位）。
var lookup = [tableSize]float64{
	0, 0.5, 0.54031, 0.57202, 0.59784, 0.61942, 0.63781, 0.65374, 0.6677, 0.68009,
	0.69116, 0.70114, 0.7102, 0.71847, 0.72606, 0.73306, 0.73954, 0.74555, 0.75117, 0.75641,
	0.76134, 0.76597, 0.77033, 0.77445, 0.77836, 0.78206, 0.78558, 0.78892, 0.79212, 0.79516,
	0.79808, 0.80087, 0.80354, 0.80611, 0.80857, 0.81094, 0.81322, 0.81542, 0.81754, 0.81959,
	0.82157, 0.82348, 0.82533, 0.82712, 0.82885, 0.83054, 0.83217, 0.83375, 0.83529, 0.83679,
	0.83824, 0.83966, 0.84104, 0.84238, 0.84368, 0.84496, 0.8462, 0.84741, 0.8486, 0.84975,
	0.85088, 0.85198, 0.85306, 0.85411, 0.85514, 0.85615, 0.85714, 0.8581, 0.85905, 0.85998,
	0.86089, 0.86178, 0.86265, 0.86351, 0.86435, 0.86517, 0.86598, 0.86677, 0.86755, 0.86832,
	0.86907, 0.86981, 0.87054, 0.87125, 0.87195, 0.87264, 0.87332, 0.87399, 0.87465, 0.87529,
	0.87593, 0.87656, 0.87717, 0.87778, 0.87838, 0.87897, 0.87955, 0.88012, 0.88068, 0.88124,
	0.88179, 0.88233, 0.88286, 0.88339, 0.8839, 0.88442, 0.88492, 0.88542, 0.88591, 0.88639,
	0.88687, 0.88734, 0.88781, 0.88827, 0.88872, 0.88917, 0.88962, 0.89005, 0.89049, 0.89091,
	0.89134, 0.89175, 0.89216, 0.89257, 0.89298, 0.89337, 0.89377, 0.89416, 0.89454, 0.89492,
	0.8953, 0.89567, 0.89604, 0.8964, 0.89676, 0.89712, 0.89747, 0.89782, 0.89817, 0.89851,
	0.89885, 0.89918, 0.89952, 0.89984, 0.90017, 0.90049, 0.90081, 0.90113, 0.90144, 0.90175,
	0.90205, 0.90236, 0.90266, 0.90296, 0.90325, 0.90354, 0.90383, 0.90412, 0.90441, 0.90469,
	0.90497, 0.90524, 0.90552, 0.90579, 0.90606, 0.90633, 0.90659, 0.90685, 0.90712, 0.90737,
	0.90763, 0.90788, 0.90813, 0.90838, 0.90863, 0.90888, 0.90912, 0.90936, 0.9096, 0.90984,
	0.91008, 0.91031, 0.91054, 0.91077, 0.911, 0.91123, 0.91145, 0.91167, 0.9119, 0.91212,
	0.91233, 0.91255, 0.91276, 0.91298, 0.91319, 0.9134, 0.91361, 0.91382, 0.91402, 0.91422,
	0.91443,
}
